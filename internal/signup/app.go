// Package signup serves the stripped-down email sign-up page: one form, no
// product catalogue, nothing stored.
package signup

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Restock/internal/restock"
	"Restock/pkg/kit"
)

//go:embed templates/signup.html
var templatesFS embed.FS

var page = template.Must(template.ParseFS(templatesFS, "templates/signup.html"))

const maxFormBytes = 16 << 10

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Server struct {
	Log *zap.Logger
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if deps.Log == nil {
		deps.Log = s.Log
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	if deps.Registry != nil {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))
		if deps.MetricsEnabled {
			r.With(kit.MetricsAuth(deps.MetricsToken)).
				Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
		}
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/", s.form)
	r.Post("/subscribe", s.subscribe)

	return r
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) {
	var data struct{ Flash *kit.Flash }
	if f, ok := kit.PopFlash(w, r); ok {
		data.Flash = &f
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		s.Log.Error("render signup page", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		kit.RedirectWithFlash(w, r, "/", kit.FlashError, "Please provide your email address.")
		return
	}

	in, err := restock.Signup(s.Log, restock.SignupInput{
		Email:  r.PostFormValue("email_address"),
		Notify: r.PostFormValue("notify") != "",
	})
	if errors.Is(err, restock.ErrMissingEmail) {
		kit.RedirectWithFlash(w, r, "/", kit.FlashError, "Please provide your email address.")
		return
	}
	if err != nil {
		s.Log.Error("signup", zap.Error(err))
		kit.RedirectWithFlash(w, r, "/", kit.FlashError, "Something went wrong. Please try again.")
		return
	}

	kit.RedirectWithFlash(w, r, "/", kit.FlashSuccess, "Thanks! We'll keep "+in.Email+" posted.")
}
