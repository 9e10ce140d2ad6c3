package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger         logger.Logger
	Checks         map[string]ReadinessCheck
	MetricsHandler http.Handler
}

// NewRouter mounts the submit endpoint plus health, readiness and metrics.
func NewRouter(submitter Submitter, opts RouterOptions) (http.Handler, error) {
	h, err := NewHandler(submitter, opts.Logger)
	if err != nil {
		return nil, err
	}
	metricsHandler := opts.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", readyHandler(opts.Checks))
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/submit-contract-info", h.SubmitContractInfo)
	})
	return r, nil
}

func readyHandler(checks map[string]ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failures := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not ready",
				"checks": failures,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
