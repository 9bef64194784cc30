// Package httptransport assembles the HTTP surface: routing, cross-cutting
// middleware, health and metrics endpoints. Business logic stays in the
// domain services.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assessmenthandler "filingcontrol/internal/assessment/handler"
	compliancehandler "filingcontrol/internal/compliance/handler"
	monitorhandler "filingcontrol/internal/monitor/handler"
	notificationhandler "filingcontrol/internal/notification/handler"
	"filingcontrol/internal/platform/metrics"
	"filingcontrol/internal/platform/middleware"
)

// Handlers collects the per-module handlers the router mounts.
type Handlers struct {
	Assessment   *assessmenthandler.Handler
	Compliance   *compliancehandler.Handler
	Notification *notificationhandler.Handler
	Monitor      *monitorhandler.Handler
}

// NewRouter wires all endpoints. User-facing routes sit behind bearer auth;
// onboarding, the stateless evaluator, and operational endpoints do not.
func NewRouter(h Handlers, validator middleware.JWTValidator, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(m.Middleware)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.Assessment.RegisterPublic(r)
	h.Monitor.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.Assessment.Register(r)
		h.Compliance.Register(r)
		h.Notification.Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
