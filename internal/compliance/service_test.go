package compliance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filingcontrol/internal/assessment"
	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
)

func newServiceFixture(t *testing.T) (*Service, *assessment.InMemoryEntityStore, *InMemoryStateStore) {
	t.Helper()
	entities := assessment.NewInMemoryEntityStore()
	states := NewInMemoryStateStore()
	svc := NewService(states, entities, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, entities, states
}

func saveEntity(t *testing.T, entities *assessment.InMemoryEntityStore, userID id.UserID) *assessment.Entity {
	t.Helper()
	entity := &assessment.Entity{
		ID:        id.NewEntityID(),
		UserID:    userID,
		Name:      "Acme LLC",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, entities.Save(context.Background(), entity))
	return entity
}

func TestListForUser_AggregatesAcrossEntities(t *testing.T) {
	ctx := context.Background()
	svc, entities, states := newServiceFixture(t)
	userID := id.NewUserID()

	first := saveEntity(t, entities, userID)
	second := saveEntity(t, entities, userID)
	other := saveEntity(t, entities, id.NewUserID())

	_, err := states.Upsert(ctx, seedState(first.ID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusOverdue))
	require.NoError(t, err)
	_, err = states.Upsert(ctx, seedState(second.ID, engine.KeyAnnualReport, engine.NewDate(2026, time.May, 1), StatusUpcoming))
	require.NoError(t, err)
	_, err = states.Upsert(ctx, seedState(other.ID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusOverdue))
	require.NoError(t, err)

	got, err := svc.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Urgency ordering holds across entities, and the other user's rows
	// never appear.
	assert.Equal(t, first.ID, got[0].EntityID)
	assert.Equal(t, StatusOverdue, got[0].Status)
	assert.Equal(t, second.ID, got[1].EntityID)
}

func TestMarkCompleted_OwnershipChecked(t *testing.T) {
	ctx := context.Background()
	svc, entities, states := newServiceFixture(t)

	owner := id.NewUserID()
	entity := saveEntity(t, entities, owner)
	_, err := states.Upsert(ctx, seedState(entity.ID, engine.KeyForm5472, engine.NewDate(2026, time.April, 15), StatusDueSoon))
	require.NoError(t, err)

	// A non-owner gets not-found, indistinguishable from a missing row.
	err = svc.MarkCompleted(ctx, id.NewUserID(), entity.ID, engine.KeyForm5472)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	got, err := states.Get(ctx, entity.ID, engine.KeyForm5472)
	require.NoError(t, err)
	assert.Equal(t, StatusDueSoon, got.Status)

	// The owner succeeds.
	require.NoError(t, svc.MarkCompleted(ctx, owner, entity.ID, engine.KeyForm5472))
	got, err = states.Get(ctx, entity.ID, engine.KeyForm5472)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestMarkCompleted_UnknownEntityOrRow(t *testing.T) {
	ctx := context.Background()
	svc, entities, _ := newServiceFixture(t)

	userID := id.NewUserID()
	err := svc.MarkCompleted(ctx, userID, id.NewEntityID(), engine.KeyForm5472)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	entity := saveEntity(t, entities, userID)
	err = svc.MarkCompleted(ctx, userID, entity.ID, engine.KeyForm5472)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
