package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Restock/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	TrustProxy bool
}

const (
	loginLimitPerMin = 5
	limitWindow      = time.Minute
	readyTimeout     = 1 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) (http.Handler, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	s.pages = p
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if deps.Log == nil {
		deps.Log = s.Log
	}

	r := chi.NewRouter()
	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.readyz)

	s.routes(r)
	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Service.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}
