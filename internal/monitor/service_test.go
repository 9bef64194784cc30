package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filingcontrol/internal/assessment"
	"filingcontrol/internal/compliance"
	"filingcontrol/internal/engine"
	"filingcontrol/internal/notification"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/platform/sentinel"
)

type fixture struct {
	entities    *assessment.InMemoryEntityStore
	assessments *assessment.InMemoryAssessmentStore
	states      *compliance.InMemoryStateStore
	events      *notification.InMemoryStore
	service     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		entities:    assessment.NewInMemoryEntityStore(),
		assessments: assessment.NewInMemoryAssessmentStore(),
		states:      compliance.NewInMemoryStateStore(),
		events:      notification.NewInMemoryStore(),
	}
	f.service = NewService(f.entities, f.assessments, f.states, f.events,
		NoopRunLock{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	return f
}

func (f *fixture) seedEntity(t *testing.T, profile engine.EntityProfile, asOf engine.Date) *assessment.Entity {
	t.Helper()
	ctx := context.Background()

	entity := &assessment.Entity{
		ID:         id.NewEntityID(),
		UserID:     id.NewUserID(),
		Name:       "Acme LLC",
		EntityType: "llc",
		CreatedAt:  asOf.Time(),
	}
	require.NoError(t, f.entities.Save(ctx, entity))

	result := engine.Assess(profile, engine.FiscalAnchor{}, asOf)
	require.NoError(t, f.assessments.Save(ctx, &assessment.Assessment{
		ID:            id.NewAssessmentID(),
		EntityID:      entity.ID,
		UserID:        entity.UserID,
		EngineVersion: result.EngineVersion,
		RiskScore:     result.RiskScore,
		RiskLevel:     result.RiskLevel,
		Result:        result,
		CreatedAt:     asOf.Time(),
	}))
	return entity
}

func foreignOwnedProfile() engine.EntityProfile {
	return engine.EntityProfile{
		ForeignOwner: true,
		SingleMember: true,
		HasEIN:       true,
	}
}

func TestRun_ReconcilesStatesAndCreatesEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asOf := engine.NewDate(2026, time.March, 1)
	entity := f.seedEntity(t, foreignOwnedProfile(), asOf)

	now := asOf.Time().Add(9 * time.Hour)
	summary, err := f.service.Run(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedEntities)
	assert.Equal(t, 0, summary.SkippedNoDeadlines)
	assert.Equal(t, 0, summary.FailedEntities)
	assert.Equal(t, now, summary.Timestamp)
	assert.Positive(t, summary.UpdatedStates)

	states, err := f.states.ListByEntity(ctx, entity.ID)
	require.NoError(t, err)
	require.NotEmpty(t, states)
	assert.Equal(t, summary.UpdatedStates, len(states))
	for _, s := range states {
		assert.Equal(t, engine.EngineVersion, s.EngineVersion)
		assert.Equal(t, now, s.ComputedAt)
		assert.NotEqual(t, compliance.StatusCompleted, s.Status)
	}

	events, err := f.events.ListByEntity(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.CreatedEvents, len(events))
	for _, e := range events {
		assert.Equal(t, notification.StatusPending, e.Status)
		assert.False(t, e.ID.IsNil())
	}
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asOf := engine.NewDate(2026, time.March, 1)
	entity := f.seedEntity(t, foreignOwnedProfile(), asOf)

	// Sweep inside the 30-day window so Form 5472 (due 2026-04-15) emits a
	// due-soon event on the first pass.
	now := engine.NewDate(2026, time.March, 20).Time()

	first, err := f.service.Run(ctx, now)
	require.NoError(t, err)
	require.Positive(t, first.CreatedEvents)

	second, err := f.service.Run(ctx, now)
	require.NoError(t, err)

	// States rewritten in place; an unchanged observation computes no new
	// events at all.
	assert.Equal(t, first.UpdatedStates, second.UpdatedStates)
	assert.Equal(t, 0, second.CreatedEvents)
	assert.Equal(t, 0, second.SkippedDuplicateEvents)

	events, err := f.events.ListByEntity(ctx, entity.ID)
	require.NoError(t, err)
	assert.Len(t, events, first.CreatedEvents)
}

func TestRun_DeduplicatesRepeatedStatusChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asOf := engine.NewDate(2026, time.March, 1)
	entity := f.seedEntity(t, foreignOwnedProfile(), asOf)

	// Form 5472 is due 2026-04-15. Sweep while upcoming, while due soon,
	// and once overdue: the second status transition maps to the same event
	// key as the first and is dropped by the store.
	_, err := f.service.Run(ctx, asOf.Time())
	require.NoError(t, err)

	dueSoonRun, err := f.service.Run(ctx, engine.NewDate(2026, time.March, 20).Time())
	require.NoError(t, err)
	require.Positive(t, dueSoonRun.CreatedEvents)

	overdueRun, err := f.service.Run(ctx, engine.NewDate(2026, time.April, 16).Time())
	require.NoError(t, err)
	assert.Positive(t, overdueRun.CreatedEvents)
	assert.Positive(t, overdueRun.SkippedDuplicateEvents)

	// Exactly one stored event per key.
	events, err := f.events.ListByEntity(ctx, entity.ID)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, e := range events {
		assert.False(t, seen[e.EventKey], "duplicate stored event key %s", e.EventKey)
		seen[e.EventKey] = true
	}
}

func TestRun_SkipsEntitiesWithoutAssessments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	entity := &assessment.Entity{
		ID:        id.NewEntityID(),
		UserID:    id.NewUserID(),
		Name:      "No Assessment LLC",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.entities.Save(ctx, entity))

	summary, err := f.service.Run(ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ProcessedEntities)
	assert.Equal(t, 1, summary.SkippedNoDeadlines)
	assert.Equal(t, 0, summary.FailedEntities)

	states, err := f.states.ListByEntity(ctx, entity.ID)
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestRun_PreservesCompletedRows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asOf := engine.NewDate(2026, time.March, 1)
	entity := f.seedEntity(t, foreignOwnedProfile(), asOf)
	now := asOf.Time()

	_, err := f.service.Run(ctx, now)
	require.NoError(t, err)

	states, err := f.states.ListByEntity(ctx, entity.ID)
	require.NoError(t, err)
	require.NotEmpty(t, states)
	completedKey := states[0].ObligationKey
	require.NoError(t, f.states.MarkCompleted(ctx, entity.ID, completedKey))

	second, err := f.service.Run(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, len(states)-1, second.UpdatedStates)

	got, err := f.states.Get(ctx, entity.ID, completedKey)
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusCompleted, got.Status)
}

type heldLock struct{}

func (heldLock) Acquire(context.Context) error { return sentinel.ErrConflict }
func (heldLock) Release(context.Context) error { return nil }

func TestRun_ConflictWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	f.service = NewService(f.entities, f.assessments, f.states, f.events,
		heldLock{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	summary, err := f.service.Run(context.Background(), time.Now())
	assert.Nil(t, summary)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

type failingAssessments struct {
	inner   *assessment.InMemoryAssessmentStore
	failFor id.UserID
}

func (s *failingAssessments) LatestByUser(ctx context.Context, userID id.UserID) (*assessment.Assessment, error) {
	if userID == s.failFor {
		return nil, errors.New("store unavailable")
	}
	return s.inner.LatestByUser(ctx, userID)
}

func TestRun_ToleratesEntityFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	asOf := engine.NewDate(2026, time.March, 1)

	healthy := f.seedEntity(t, foreignOwnedProfile(), asOf)
	broken := f.seedEntity(t, foreignOwnedProfile(), asOf)

	f.service = NewService(f.entities,
		&failingAssessments{inner: f.assessments, failFor: broken.UserID},
		f.states, f.events, NoopRunLock{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	summary, err := f.service.Run(ctx, asOf.Time())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedEntities)
	assert.Equal(t, 1, summary.FailedEntities)

	states, err := f.states.ListByEntity(ctx, healthy.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, states)
}
