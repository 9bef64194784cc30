package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"filingcontrol/internal/assessment"
	"filingcontrol/internal/compliance"
	"filingcontrol/internal/monitor/metrics"
	"filingcontrol/internal/notification"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/platform/sentinel"
)

// EntityLister is the slice of the entity store the monitor sweeps.
type EntityLister interface {
	ListAll(ctx context.Context) ([]*assessment.Entity, error)
}

// AssessmentReader resolves the evaluation the monitor reconciles against.
type AssessmentReader interface {
	LatestByUser(ctx context.Context, userID id.UserID) (*assessment.Assessment, error)
}

// RunSummary reports what one monitor sweep did.
type RunSummary struct {
	ProcessedEntities      int       `json:"processedEntities"`
	UpdatedStates          int       `json:"updatedStates"`
	SkippedNoDeadlines     int       `json:"skippedNoDeadlines"`
	FailedEntities         int       `json:"failedEntities"`
	CreatedEvents          int       `json:"createdEvents"`
	SkippedDuplicateEvents int       `json:"skippedDuplicateEvents"`
	Timestamp              time.Time `json:"timestamp"`
}

// Service is the deadline monitor: it sweeps every entity, reconciles its
// compliance state from the latest assessment, and records notification
// events for threshold crossings.
type Service struct {
	entities    EntityLister
	assessments AssessmentReader
	states      compliance.StateStore
	events      notification.Store
	lock        RunLock
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewService(
	entities EntityLister,
	assessments AssessmentReader,
	states compliance.StateStore,
	events notification.Store,
	lock RunLock,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		entities:    entities,
		assessments: assessments,
		states:      states,
		events:      events,
		lock:        lock,
		logger:      logger,
		metrics:     m,
	}
}

// Run executes one full sweep at the given reference time. Runs are
// serialized by the run lock; a held lock is a conflict, not a failure.
// Entity failures are tolerated and counted: only an unreadable entity list
// aborts the whole run.
func (s *Service) Run(ctx context.Context, now time.Time) (*RunSummary, error) {
	if err := s.lock.Acquire(ctx); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementRun("locked")
			return nil, dErrors.New(dErrors.CodeConflict, "a monitor run is already in progress")
		}
		s.metrics.IncrementRun("failed")
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to acquire run lock", err)
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.logger.ErrorContext(ctx, "failed to release monitor run lock", "error", err)
		}
	}()

	start := time.Now()
	entities, err := s.entities.ListAll(ctx)
	if err != nil {
		s.metrics.IncrementRun("failed")
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list entities", err)
	}

	summary := &RunSummary{Timestamp: now}
	for _, entity := range entities {
		if err := ctx.Err(); err != nil {
			s.metrics.IncrementRun("failed")
			return nil, dErrors.Wrap(dErrors.CodeInternal, "monitor run cancelled", err)
		}

		if err := s.sweepEntity(ctx, entity, now, summary); err != nil {
			summary.FailedEntities++
			s.metrics.IncrementEntity("failed")
			s.logger.ErrorContext(ctx, "entity sweep failed",
				"entity_id", entity.ID,
				"error", err,
			)
			continue
		}
	}

	s.metrics.IncrementRun("ok")
	s.metrics.ObserveRunDuration(time.Since(start))
	s.logger.InfoContext(ctx, "monitor run completed",
		"processed_entities", summary.ProcessedEntities,
		"updated_states", summary.UpdatedStates,
		"skipped_no_deadlines", summary.SkippedNoDeadlines,
		"failed_entities", summary.FailedEntities,
		"created_events", summary.CreatedEvents,
		"skipped_duplicate_events", summary.SkippedDuplicateEvents,
	)
	return summary, nil
}

func (s *Service) sweepEntity(ctx context.Context, entity *assessment.Entity, now time.Time, summary *RunSummary) error {
	latest, err := s.assessments.LatestByUser(ctx, entity.UserID)
	if errors.Is(err, sentinel.ErrNotFound) {
		summary.SkippedNoDeadlines++
		s.metrics.IncrementEntity("skipped")
		return nil
	}
	if err != nil {
		return err
	}

	desired := compliance.Compute(entity.ID, latest.Result.Deadlines, latest.EngineVersion, now)
	if len(desired) == 0 {
		summary.SkippedNoDeadlines++
		s.metrics.IncrementEntity("skipped")
		return nil
	}

	for _, state := range desired {
		prev, err := s.states.Get(ctx, entity.ID, state.ObligationKey)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}

		written, err := s.states.Upsert(ctx, state)
		if err != nil {
			return err
		}
		if !written {
			// Completed row preserved; no transition to report.
			continue
		}
		summary.UpdatedStates++
		s.metrics.AddStatesUpdated(1)

		for _, event := range notification.ComputeEvents(prev, state) {
			event.ID = id.NewEventID()
			event.CreatedAt = now
			err := s.events.Save(ctx, event)
			if errors.Is(err, sentinel.ErrConflict) {
				summary.SkippedDuplicateEvents++
				s.metrics.IncrementEvent("duplicate")
				continue
			}
			if err != nil {
				return err
			}
			summary.CreatedEvents++
			s.metrics.IncrementEvent("created")
		}
	}

	summary.ProcessedEntities++
	s.metrics.IncrementEntity("processed")
	return nil
}
