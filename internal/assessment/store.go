package assessment

import (
	"context"

	id "filingcontrol/pkg/domain"
)

// Stores are interface-driven to keep the services testable and to allow
// swapping in-memory and postgres implementations without rewiring business
// code. Implementations wrap missing rows in sentinel.ErrNotFound.

// UserStore persists account owners.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// EntityStore persists business entities.
type EntityStore interface {
	Save(ctx context.Context, entity *Entity) error
	FindByID(ctx context.Context, entityID id.EntityID) (*Entity, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*Entity, error)
	ListAll(ctx context.Context) ([]*Entity, error)
}

// Store persists assessment snapshots. Append-only: snapshots are immutable
// once saved.
type Store interface {
	Save(ctx context.Context, a *Assessment) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*Assessment, error)

	// LatestByUser returns the newest assessment by createdAt, or
	// sentinel.ErrNotFound when the user has none.
	LatestByUser(ctx context.Context, userID id.UserID) (*Assessment, error)
}
