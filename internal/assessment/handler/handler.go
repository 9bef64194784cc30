package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"filingcontrol/internal/assessment"
	"filingcontrol/internal/assessment/metrics"
	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/platform/httputil"
	"filingcontrol/pkg/requestcontext"
)

// Service defines the interface for assessment operations.
type Service interface {
	FindOrCreateUser(ctx context.Context, email string) (*assessment.User, error)
	CreateEntity(ctx context.Context, userID id.UserID, name, entityType string) (*assessment.Entity, error)
	ListEntities(ctx context.Context, userID id.UserID) ([]*assessment.Entity, error)
	Assess(ctx context.Context, entityID id.EntityID, profile engine.EntityProfile, anchor engine.FiscalAnchor) (*assessment.Assessment, error)
	CreateSnapshot(ctx context.Context, entityID id.EntityID, engineVersion string, riskScore int, riskLevel engine.RiskLevel, result engine.ComplianceResult) (*assessment.Assessment, error)
	ListAssessments(ctx context.Context, userID id.UserID) ([]*assessment.Assessment, error)
}

// Handler wires assessment endpoints to the assessment service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs an assessment handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterPublic mounts the endpoints that work without authentication:
// onboarding and the stateless evaluator.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/filingcontrol/users", h.HandleCreateUser)
	r.Post("/filingcontrol/evaluate", h.HandleEvaluate)
	r.Get("/filingcontrol/questionnaire", h.HandleQuestionnaire)
}

// Register mounts the authenticated assessment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/filingcontrol/entities", h.HandleCreateEntity)
	r.Get("/filingcontrol/entities", h.HandleListEntities)
	r.Post("/filingcontrol/assessments", h.HandleCreateAssessment)
	r.Post("/filingcontrol/assessments/run", h.HandleRunAssessment)
	r.Get("/filingcontrol/assessments", h.HandleListAssessments)
}

// HandleEvaluate handles POST /filingcontrol/evaluate requests. It runs the
// rules engine without touching storage.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	asOf := req.ParsedAsOf()
	if asOf.IsZero() {
		asOf = engine.DateOf(requestcontext.Now(ctx))
	}
	result := engine.Assess(req.ParsedProfile(), req.ParsedAnchor(), asOf)

	h.metrics.ObserveEvaluateLatency(time.Since(start))
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleQuestionnaire handles GET /filingcontrol/questionnaire requests.
func (h *Handler) HandleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"questions": engine.Questions(),
	})
}

// HandleCreateUser handles POST /filingcontrol/users requests. The operation
// is idempotent: an existing user with the same email is returned as-is.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.FindOrCreateUser(ctx, req.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve user",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}

// HandleCreateEntity handles POST /filingcontrol/entities requests.
func (h *Handler) HandleCreateEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	req, decoded := httputil.DecodeAndPrepare[CreateEntityRequest](w, r, h.logger, ctx, requestID)
	if !decoded {
		return
	}

	entity, err := h.service.CreateEntity(ctx, userID, req.Name, req.EntityType)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create entity",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromEntity(entity))
}

// HandleListEntities handles GET /filingcontrol/entities requests.
func (h *Handler) HandleListEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	entities, err := h.service.ListEntities(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list entities",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"entities": FromEntities(entities),
	})
}

// HandleCreateAssessment handles POST /filingcontrol/assessments requests.
func (h *Handler) HandleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, ok := h.requireUser(w, ctx); !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateAssessmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	a, err := h.service.CreateSnapshot(ctx, req.ParsedEntityID(), req.EngineVersion,
		req.RiskScore, engine.RiskLevel(req.RiskLevel), req.ParsedResult())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create assessment",
			"request_id", requestID,
			"entity_id", req.EntityID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.metrics.IncrementCreated(string(a.RiskLevel))
	httputil.WriteJSON(w, http.StatusCreated, FromAssessment(a))
}

// HandleRunAssessment handles POST /filingcontrol/assessments/run requests:
// evaluate the profile, compute deadlines, persist the snapshot.
func (h *Handler) HandleRunAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, ok := h.requireUser(w, ctx); !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[RunAssessmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	a, err := h.service.Assess(ctx, req.ParsedEntityID(), req.ParsedProfile(), req.ParsedAnchor())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to run assessment",
			"request_id", requestID,
			"entity_id", req.EntityID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.metrics.IncrementCreated(string(a.RiskLevel))
	httputil.WriteJSON(w, http.StatusCreated, FromAssessment(a))
}

// HandleListAssessments handles GET /filingcontrol/assessments requests.
func (h *Handler) HandleListAssessments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}

	assessments, err := h.service.ListAssessments(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list assessments",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"assessments": FromAssessments(assessments),
	})
}

func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}
