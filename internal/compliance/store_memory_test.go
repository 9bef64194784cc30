package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/platform/sentinel"
)

func seedState(entityID id.EntityID, key string, due engine.Date, status Status) *State {
	return &State{
		EntityID:      entityID,
		ObligationKey: key,
		Form:          "5472",
		DueDate:       due,
		DaysRemaining: 10,
		Status:        status,
		EngineVersion: engine.EngineVersion,
		ComputedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestInMemoryStateStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStateStore()
	entityID := id.NewEntityID()

	state := seedState(entityID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusDueSoon)
	written, err := store.Upsert(ctx, state)
	require.NoError(t, err)
	assert.True(t, written)

	got, err := store.Get(ctx, entityID, engine.KeyForm5472)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	// Stored copy is isolated from later caller mutation.
	state.Status = StatusOverdue
	got, err = store.Get(ctx, entityID, engine.KeyForm5472)
	require.NoError(t, err)
	assert.Equal(t, StatusDueSoon, got.Status)
}

func TestInMemoryStateStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStateStore()
	entityID := id.NewEntityID()
	state := seedState(entityID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusUpcoming)

	for i := 0; i < 2; i++ {
		written, err := store.Upsert(ctx, state)
		require.NoError(t, err)
		assert.True(t, written)
	}

	states, err := store.ListByEntity(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, states, 1)
}

func TestInMemoryStateStore_UpsertPreservesCompleted(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStateStore()
	entityID := id.NewEntityID()

	_, err := store.Upsert(ctx, seedState(entityID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusDueSoon))
	require.NoError(t, err)
	require.NoError(t, store.MarkCompleted(ctx, entityID, engine.KeyForm5472))

	written, err := store.Upsert(ctx, seedState(entityID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusOverdue))
	require.NoError(t, err)
	assert.False(t, written)

	got, err := store.Get(ctx, entityID, engine.KeyForm5472)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestInMemoryStateStore_MarkCompletedMissingRow(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStateStore()

	err := store.MarkCompleted(ctx, id.NewEntityID(), engine.KeyForm5472)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStateStore_ListOrdersByUrgency(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStateStore()
	entityID := id.NewEntityID()

	rows := []*State{
		seedState(entityID, engine.KeyAnnualReport, engine.NewDate(2026, time.May, 1), StatusUpcoming),
		seedState(entityID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusOverdue),
		seedState(entityID, engine.KeyBOIReport, engine.NewDate(2027, time.January, 1), StatusCompleted),
		seedState(entityID, engine.KeyFranchiseTax, engine.NewDate(2026, time.April, 15), StatusDueSoon),
	}
	for _, row := range rows {
		_, err := store.Upsert(ctx, row)
		require.NoError(t, err)
	}

	states, err := store.ListByEntity(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, states, 4)

	keys := make([]string, 0, len(states))
	for _, s := range states {
		keys = append(keys, s.ObligationKey)
	}
	assert.Equal(t, []string{
		engine.KeyForm5472,
		engine.KeyFranchiseTax,
		engine.KeyAnnualReport,
		engine.KeyBOIReport,
	}, keys)
}
