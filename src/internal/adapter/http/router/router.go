package router

import (
	"net/http"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/banking-ledger/src/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type Options struct {
	AuthMiddleware      func(http.Handler) http.Handler
	RateLimitMiddleware func(http.Handler) http.Handler
	RequestTimeout      time.Duration
}

// New wires the public endpoints and the authenticated API. Authentication
// runs before rate limiting so limits apply per user.
func New(opts Options, registrars ...RouteRegistrar) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.InstrumentHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	registerSwaggerRoutes(r)

	r.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(middleware.RequestTimeout(opts.RequestTimeout))
		}
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}
		if opts.RateLimitMiddleware != nil {
			r.Use(opts.RateLimitMiddleware)
		}

		for _, registrar := range registrars {
			if registrar != nil {
				registrar.RegisterRoutes(r)
			}
		}
	})

	return r
}
