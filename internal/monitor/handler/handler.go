package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"filingcontrol/internal/monitor"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/platform/httputil"
	"filingcontrol/pkg/requestcontext"
)

// SecretHeader carries the shared secret authorizing internal monitor runs.
const SecretHeader = "X-Monitor-Secret"

// Service defines the interface for monitor operations.
type Service interface {
	Run(ctx context.Context, now time.Time) (*monitor.RunSummary, error)
}

// Handler exposes the internal trigger for monitor runs.
type Handler struct {
	service Service
	logger  *slog.Logger
	secret  string
}

// New constructs a monitor handler. The secret must be non-empty; the route
// is not registered without one.
func New(service Service, logger *slog.Logger, secret string) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		secret:  secret,
	}
}

// Register mounts the monitor trigger on the router.
func (h *Handler) Register(r chi.Router) {
	if h.secret == "" {
		h.logger.Warn("monitor secret not configured, trigger endpoint disabled")
		return
	}
	r.Post("/internal/monitor", h.HandleRun)
}

// HandleRun handles POST /internal/monitor requests.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	provided := r.Header.Get(SecretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		h.logger.WarnContext(ctx, "monitor trigger rejected",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid monitor secret"))
		return
	}

	summary, err := h.service.Run(ctx, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "monitor run failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}
