package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/adapter/metrics"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter mounts the handlers behind request logging and panic recovery, plus /health and /metrics.
func NewRouter(log logger.Logger, m *metrics.Registry, handlers ...routeRegistrar) http.Handler {
	r := chi.NewRouter()
	r.Use(LoggingMiddleware(log, m))
	r.Use(RecoveryMiddleware(log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	for _, h := range handlers {
		h.RegisterRoutes(r)
	}
	return r
}
