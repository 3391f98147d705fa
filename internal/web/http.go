package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Restock/internal/auth"
	"Restock/internal/notify"
	"Restock/internal/restock"
	"Restock/pkg/kit"
)

const maxFormBytes = 64 << 10

type Server struct {
	Service     *restock.Service
	Credentials *auth.Credentials
	Sessions    *auth.Sessions
	Log         *zap.Logger

	pages pages
}

func (s *Server) routes(r chi.Router) {
	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	loginLimiter.OnLimit = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kit.RedirectWithFlash(w, r, "/admin_login", kit.FlashError, msgTooManyLogins)
	})

	r.Get("/", s.index)
	r.Post("/", s.subscribe)

	r.Get("/admin_login", s.loginForm)
	r.With(loginLimiter.Middleware).Post("/admin_login", s.login)
	r.Get("/admin_logout", s.logout)

	r.Group(func(ar chi.Router) {
		ar.Use(s.Sessions.RequireAdmin(http.HandlerFunc(s.loginRequired)))
		ar.Get("/admin", s.adminPanel)
		ar.Get("/toggle-availability/{product_id:[0-9]+}", s.toggleAvailability)
		ar.Get("/delete-subscription/{sub_id:[0-9]+}", s.deleteSubscription)
	})

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/products", s.listProducts)
		ar.Get("/products/{id}", s.getProduct)
	})
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, pageIndex, indexData{
		Flash:    popFlash(w, r),
		Products: s.Service.Products(),
	})
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		kit.RedirectWithFlash(w, r, "/", kit.FlashError, msgServerError)
		return
	}

	// a missing or malformed id reads as "no product selected"
	productID, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("product_id")))

	res, err := s.Service.Subscribe(r.Context(), restock.SubscribeInput{
		Email:            r.PostFormValue("email"),
		Phone:            r.PostFormValue("phone"),
		ProductID:        productID,
		NotificationType: notify.Preference(r.PostFormValue("notification_type")),
	})
	if err != nil {
		kind, msg := subscribeFailure(err)
		kit.RedirectWithFlash(w, r, "/", kind, msg)
		return
	}

	kit.RedirectWithFlash(w, r, "/", kit.FlashSuccess, subscribeSuccess(res))
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, pageAdminLogin, loginData{Flash: popFlash(w, r)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		kit.RedirectWithFlash(w, r, "/admin_login", kit.FlashError, msgBadCredentials)
		return
	}

	username := r.PostFormValue("username")
	if err := s.Credentials.Verify(username, r.PostFormValue("password")); err != nil {
		s.Log.Info("admin login rejected", zap.String("remote", r.RemoteAddr))
		kit.RedirectWithFlash(w, r, "/admin_login", kit.FlashError, msgBadCredentials)
		return
	}

	if _, err := s.Sessions.Start(w, s.Credentials.Username()); err != nil {
		s.Log.Error("issue admin session", zap.Error(err))
		kit.RedirectWithFlash(w, r, "/admin_login", kit.FlashError, msgSessionFailed)
		return
	}

	s.Log.Info("admin logged in", zap.String("admin", s.Credentials.Username()))
	kit.RedirectWithFlash(w, r, "/admin", kit.FlashSuccess, msgLoggedIn)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.End(w)
	kit.RedirectWithFlash(w, r, "/", kit.FlashSuccess, msgLoggedOut)
}

func (s *Server) loginRequired(w http.ResponseWriter, r *http.Request) {
	msg := msgActionRequired
	if r.URL.Path == "/admin" {
		msg = msgLoginRequired
	}
	kit.RedirectWithFlash(w, r, "/admin_login", kit.FlashInfo, msg)
}

func (s *Server) adminPanel(w http.ResponseWriter, r *http.Request) {
	grant, _ := auth.GrantFromContext(r.Context())
	s.renderPage(w, r, pageAdmin, adminData{
		Flash:         popFlash(w, r),
		Admin:         grant.Subject(),
		Products:      s.Service.Products(),
		Subscriptions: s.Service.Subscriptions(),
	})
}

func (s *Server) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	grant, _ := auth.GrantFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "product_id"))
	if err != nil {
		kit.RedirectWithFlash(w, r, "/admin", kit.FlashError, "Product not found.")
		return
	}

	res, err := s.Service.ToggleAvailability(r.Context(), grant, id)
	switch {
	case errors.Is(err, restock.ErrProductNotFound):
		kit.RedirectWithFlash(w, r, "/admin", kit.FlashError, "Product not found.")
		return
	case errors.Is(err, restock.ErrUnauthorized):
		kit.RedirectWithFlash(w, r, "/admin_login", kit.FlashInfo, msgActionRequired)
		return
	case err != nil:
		s.Log.Error("toggle availability", zap.Error(err), zap.Int("product_id", id))
		kit.RedirectWithFlash(w, r, "/admin", kit.FlashError, msgServerError)
		return
	}

	kind, msg := toggleMessage(res)
	kit.RedirectWithFlash(w, r, "/admin", kind, msg)
}

func (s *Server) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	grant, _ := auth.GrantFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "sub_id"))
	if err != nil {
		kit.RedirectWithFlash(w, r, "/admin", kit.FlashError, "Subscription not found.")
		return
	}

	err = s.Service.DeleteSubscription(r.Context(), grant, id)
	switch {
	case errors.Is(err, restock.ErrSubscriptionNotFound):
		kit.RedirectWithFlash(w, r, "/admin", kit.FlashError, "Subscription not found.")
	case errors.Is(err, restock.ErrUnauthorized):
		kit.RedirectWithFlash(w, r, "/admin_login", kit.FlashInfo, msgActionRequired)
	case err != nil:
		s.Log.Error("delete subscription", zap.Error(err), zap.Int("subscription_id", id))
		kit.RedirectWithFlash(w, r, "/admin", kit.FlashError, msgServerError)
	default:
		kit.RedirectWithFlash(w, r, "/admin", kit.FlashSuccess, "Subscription deleted successfully.")
	}
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Service.Products())
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return
	}

	p, ok := s.Service.Product(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.Log.Warn("bad form", zap.Error(err))
		return false
	}
	return true
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.pages.render(w, name, data); err != nil {
		s.Log.Error("render page", zap.String("page", name), zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func popFlash(w http.ResponseWriter, r *http.Request) *kit.Flash {
	f, ok := kit.PopFlash(w, r)
	if !ok {
		return nil
	}
	return &f
}
