package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"filingcontrol/internal/compliance"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/platform/httputil"
	"filingcontrol/pkg/requestcontext"
)

// Service defines the interface for compliance state operations.
type Service interface {
	ListForUser(ctx context.Context, userID id.UserID) ([]*compliance.State, error)
	MarkCompleted(ctx context.Context, userID id.UserID, entityID id.EntityID, obligationKey string) error
}

// Handler wires compliance state endpoints to the compliance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compliance handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/filingcontrol/compliance-state", h.HandleList)
	r.Post("/filingcontrol/compliance-state/complete", h.HandleComplete)
}

// HandleList handles GET /filingcontrol/compliance-state requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	states, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list compliance state",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"complianceState": FromStates(states),
	})
}

// HandleComplete handles POST /filingcontrol/compliance-state/complete requests.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CompleteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.service.MarkCompleted(ctx, userID, req.ParsedEntityID(), req.ObligationKey)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to complete obligation",
			"request_id", requestID,
			"user_id", userID,
			"entity_id", req.EntityID,
			"obligation_key", req.ObligationKey,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
