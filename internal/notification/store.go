package notification

import (
	"context"

	id "filingcontrol/pkg/domain"
)

// Store persists notification events.
//
// Implementations return sentinel.ErrConflict when an event key already
// exists and sentinel.ErrNotFound for missing rows.
type Store interface {
	// Save inserts a new event. A duplicate event key is a conflict.
	Save(ctx context.Context, event *Event) error

	// FindByID returns one event.
	FindByID(ctx context.Context, eventID id.EventID) (*Event, error)

	// ListByEntity returns an entity's events, newest first.
	ListByEntity(ctx context.Context, entityID id.EntityID) ([]*Event, error)

	// ListPending returns up to limit undelivered events, oldest first.
	ListPending(ctx context.Context, limit int) ([]*Event, error)

	// UpdateStatus transitions an event from one status to another. It
	// returns sentinel.ErrNotFound when the event does not exist in the
	// expected status.
	UpdateStatus(ctx context.Context, eventID id.EventID, from, to Status) error
}
