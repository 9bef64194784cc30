package assessment

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/email"
	"filingcontrol/pkg/platform/sentinel"
	"filingcontrol/pkg/requestcontext"
)

// Service persists users, entities, and assessment snapshots. It keeps
// orchestration out of handlers and domain logic in the engine package.
type Service struct {
	users       UserStore
	entities    EntityStore
	assessments Store
	logger      *slog.Logger
}

func NewService(users UserStore, entities EntityStore, assessments Store, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		entities:    entities,
		assessments: assessments,
		logger:      logger,
	}
}

// FindOrCreateUser resolves a user by email, creating one on first contact.
func (s *Service) FindOrCreateUser(ctx context.Context, address string) (*User, error) {
	address, err := email.Normalize(address)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, address)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to query user", err)
	}

	user := &User{
		ID:        id.NewUserID(),
		Email:     address,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create user", err)
	}
	return user, nil
}

// CreateEntity registers a business entity under a user. Optional fields
// fall back to onboarding defaults.
func (s *Service) CreateEntity(ctx context.Context, userID id.UserID, name, entityType string) (*Entity, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultEntityName
	}
	if entityType = strings.TrimSpace(entityType); entityType == "" {
		entityType = DefaultEntityType
	}

	entity := &Entity{
		ID:         id.NewEntityID(),
		UserID:     userID,
		Name:       name,
		EntityType: entityType,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := s.entities.Save(ctx, entity); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create entity", err)
	}
	return entity, nil
}

// ListEntities returns a user's entities, newest first.
func (s *Service) ListEntities(ctx context.Context, userID id.UserID) ([]*Entity, error) {
	entities, err := s.entities.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list entities", err)
	}
	return entities, nil
}

// Assess runs the full evaluation pipeline for an entity and persists the
// snapshot: evaluate obligations and risk, compute deadlines against the
// fiscal anchor and the request-scoped reference date, save the result.
func (s *Service) Assess(ctx context.Context, entityID id.EntityID, profile engine.EntityProfile, anchor engine.FiscalAnchor) (*Assessment, error) {
	entity, err := s.entities.FindByID(ctx, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load entity", err)
	}

	now := requestcontext.Now(ctx)
	result := engine.Assess(profile, anchor, engine.DateOf(now))

	a := &Assessment{
		ID:            id.NewAssessmentID(),
		EntityID:      entity.ID,
		UserID:        entity.UserID,
		EngineVersion: result.EngineVersion,
		RiskScore:     result.RiskScore,
		RiskLevel:     result.RiskLevel,
		Result:        result,
		CreatedAt:     now,
	}
	if err := s.assessments.Save(ctx, a); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save assessment", err)
	}

	s.logger.InfoContext(ctx, "assessment created",
		"assessment_id", a.ID,
		"entity_id", entity.ID,
		"risk_level", a.RiskLevel,
		"engine_version", a.EngineVersion,
	)
	return a, nil
}

// CreateSnapshot persists an externally computed assessment snapshot
// (entityId, engineVersion, riskScore, riskLevel, resultJSON). The entity
// must exist; ownership is derived from it, never from the caller.
func (s *Service) CreateSnapshot(ctx context.Context, entityID id.EntityID, engineVersion string, riskScore int, riskLevel engine.RiskLevel, result engine.ComplianceResult) (*Assessment, error) {
	entity, err := s.entities.FindByID(ctx, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load entity", err)
	}

	a := &Assessment{
		ID:            id.NewAssessmentID(),
		EntityID:      entity.ID,
		UserID:        entity.UserID,
		EngineVersion: engineVersion,
		RiskScore:     riskScore,
		RiskLevel:     riskLevel,
		Result:        result,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := s.assessments.Save(ctx, a); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to save assessment", err)
	}
	return a, nil
}

// ListAssessments returns a user's snapshots, newest first.
func (s *Service) ListAssessments(ctx context.Context, userID id.UserID) ([]*Assessment, error) {
	assessments, err := s.assessments.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list assessments", err)
	}
	return assessments, nil
}
