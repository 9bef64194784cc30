package compliance

import (
	"context"

	id "filingcontrol/pkg/domain"
)

// StateStore persists per-obligation compliance state rows.
//
// Implementations return sentinel.ErrNotFound for missing rows. Upsert must
// be atomic per row and must preserve rows whose current status is completed.
type StateStore interface {
	// Upsert writes the state row for (state.EntityID, state.ObligationKey),
	// replacing any existing row unless it is completed. It reports whether
	// the row was written.
	Upsert(ctx context.Context, state *State) (bool, error)

	// Get returns the current row for an obligation.
	Get(ctx context.Context, entityID id.EntityID, obligationKey string) (*State, error)

	// ListByEntity returns all rows for an entity ordered by urgency, then
	// due date.
	ListByEntity(ctx context.Context, entityID id.EntityID) ([]*State, error)

	// MarkCompleted flips a row to completed. Reconciliation will not touch
	// the row again until a new filing cycle replaces it.
	MarkCompleted(ctx context.Context, entityID id.EntityID, obligationKey string) error
}
