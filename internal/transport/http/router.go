// Package httptransport is the thin HTTP layer. It delegates to the billing
// core without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"entitle/internal/platform/middleware"
)

// NewRouter wires all public endpoints: the storefront callback surface, the
// guarded entitlement query API, health and metrics.
func NewRouter(logger *slog.Logger, callbacks *CallbackHandler, entitlements *EntitlementHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	callbacks.Register(r)
	entitlements.Register(r)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError keeps a consistent JSON error envelope across handlers.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
