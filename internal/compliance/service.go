package compliance

import (
	"context"
	"errors"
	"log/slog"

	"filingcontrol/internal/assessment"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/platform/sentinel"
)

// EntityResolver is the slice of the entity store the compliance service
// needs for ownership checks and user scoping.
type EntityResolver interface {
	FindByID(ctx context.Context, entityID id.EntityID) (*assessment.Entity, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*assessment.Entity, error)
}

// Service exposes user-facing compliance state operations. Reconciliation
// itself runs in the monitor; this service reads and completes rows.
type Service struct {
	states   StateStore
	entities EntityResolver
	logger   *slog.Logger
}

func NewService(states StateStore, entities EntityResolver, logger *slog.Logger) *Service {
	return &Service{
		states:   states,
		entities: entities,
		logger:   logger,
	}
}

// ListForUser returns every tracked obligation across the user's entities,
// ordered by urgency, then due date.
func (s *Service) ListForUser(ctx context.Context, userID id.UserID) ([]*State, error) {
	entities, err := s.entities.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list entities", err)
	}

	var all []*State
	for _, entity := range entities {
		states, err := s.states.ListByEntity(ctx, entity.ID)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list compliance state", err)
		}
		all = append(all, states...)
	}

	SortStates(all)
	return all, nil
}

// MarkCompleted flips one obligation row to completed on behalf of a user.
// Ownership is checked in two explicit steps: resolve the entity's owner,
// then compare. A row the user does not own is reported as not found, never
// as forbidden, so the API does not leak which entities exist.
func (s *Service) MarkCompleted(ctx context.Context, userID id.UserID, entityID id.EntityID, obligationKey string) error {
	entity, err := s.entities.FindByID(ctx, entityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "compliance state not found")
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to load entity", err)
	}
	if entity.UserID != userID {
		return dErrors.New(dErrors.CodeNotFound, "compliance state not found")
	}

	err = s.states.MarkCompleted(ctx, entityID, obligationKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "compliance state not found")
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to mark compliance state completed", err)
	}

	s.logger.InfoContext(ctx, "obligation marked completed",
		"entity_id", entityID,
		"obligation_key", obligationKey,
	)
	return nil
}
