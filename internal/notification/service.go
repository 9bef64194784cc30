package notification

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"filingcontrol/internal/assessment"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/platform/sentinel"
)

// EntityResolver is the slice of the entity store the notification service
// needs for ownership checks and user scoping.
type EntityResolver interface {
	FindByID(ctx context.Context, entityID id.EntityID) (*assessment.Entity, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*assessment.Entity, error)
}

// Service exposes user-facing notification operations.
type Service struct {
	events   Store
	entities EntityResolver
	logger   *slog.Logger
}

func NewService(events Store, entities EntityResolver, logger *slog.Logger) *Service {
	return &Service{
		events:   events,
		entities: entities,
		logger:   logger,
	}
}

// ListForUser returns every notification event across the user's entities,
// newest first.
func (s *Service) ListForUser(ctx context.Context, userID id.UserID) ([]*Event, error) {
	entities, err := s.entities.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list entities", err)
	}

	var all []*Event
	for _, entity := range entities {
		events, err := s.events.ListByEntity(ctx, entity.ID)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list notification events", err)
		}
		all = append(all, events...)
	}

	sortEventsNewestFirst(all)
	return all, nil
}

// Dismiss cancels a pending notification on behalf of a user. Ownership is
// checked in two explicit steps: resolve the event's entity owner, then
// compare. An event the user does not own is reported as not found, never as
// forbidden. Only pending events can be dismissed; sent and already
// cancelled events are left untouched.
func (s *Service) Dismiss(ctx context.Context, userID id.UserID, eventID id.EventID) error {
	event, err := s.events.FindByID(ctx, eventID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to load notification", err)
	}

	entity, err := s.entities.FindByID(ctx, event.EntityID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to load entity", err)
	}
	if entity.UserID != userID {
		return dErrors.New(dErrors.CodeNotFound, "notification not found")
	}

	if event.Status != StatusPending {
		return dErrors.New(dErrors.CodeConflict, "only pending notifications can be dismissed")
	}

	err = s.events.UpdateStatus(ctx, eventID, StatusPending, StatusCancelled)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Raced with the dispatcher.
		return dErrors.New(dErrors.CodeConflict, "only pending notifications can be dismissed")
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to dismiss notification", err)
	}

	s.logger.InfoContext(ctx, "notification dismissed",
		"event_id", eventID,
		"entity_id", event.EntityID,
		"event_type", event.EventType,
	)
	return nil
}

func sortEventsNewestFirst(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].EventKey < events[j].EventKey
	})
}
