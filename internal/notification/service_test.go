package notification

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

func newServiceFixture(t *testing.T) (*Service, *assessment.InMemoryEntityStore, *InMemoryStore) {
	t.Helper()
	entities := assessment.NewInMemoryEntityStore()
	events := NewInMemoryStore()
	svc := NewService(events, entities, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, entities, events
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

func saveEvent(t *testing.T, events *InMemoryStore, entityID id.EntityID, eventType EventType, createdAt time.Time) *Event {
	t.Helper()
	due := engine.NewDate(2026, time.April, 15)
	event := &Event{
		ID:            id.NewEventID(),
		EntityID:      entityID,
		ObligationKey: engine.KeyForm5472,
		Form:          "5472",
		EventType:     eventType,
		DueDate:       due,
		EventKey:      BuildEventKey(entityID, engine.KeyForm5472, eventType, due),
		Status:        StatusPending,
		CreatedAt:     createdAt,
	}
	require.NoError(t, events.Save(context.Background(), event))
	return event
}

func TestListForUser_ScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	svc, entities, events := newServiceFixture(t)
	userID := id.NewUserID()

	mine := saveEntity(t, entities, userID)
	other := saveEntity(t, entities, id.NewUserID())

	older := saveEvent(t, events, mine.ID, EventDueSoon30, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	newer := saveEvent(t, events, mine.ID, EventDueSoon7, time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC))
	saveEvent(t, events, other.ID, EventOverdue, time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC))

	got, err := svc.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestDismiss_OwnershipChecked(t *testing.T) {
	ctx := context.Background()
	svc, entities, events := newServiceFixture(t)

	owner := id.NewUserID()
	entity := saveEntity(t, entities, owner)
	event := saveEvent(t, events, entity.ID, EventDueSoon30, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))

	// A non-owner gets not-found, indistinguishable from a missing event.
	err := svc.Dismiss(ctx, id.NewUserID(), event.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	got, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	// The owner cancels it.
	require.NoError(t, svc.Dismiss(ctx, owner, event.ID))
	got, err = events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestDismiss_OnlyPendingEvents(t *testing.T) {
	ctx := context.Background()
	svc, entities, events := newServiceFixture(t)

	owner := id.NewUserID()
	entity := saveEntity(t, entities, owner)
	event := saveEvent(t, events, entity.ID, EventDueSoon30, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, events.UpdateStatus(ctx, event.ID, StatusPending, StatusSent))

	err := svc.Dismiss(ctx, owner, event.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	got, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, got.Status)
}

func TestDismiss_UnknownEvent(t *testing.T) {
	svc, _, _ := newServiceFixture(t)

	err := svc.Dismiss(context.Background(), id.NewUserID(), id.NewEventID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
