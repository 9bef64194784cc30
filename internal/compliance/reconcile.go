package compliance

// Pure reconciliation logic - no I/O.

import (
	"time"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
)

// Thresholds for deriving a status from days remaining. A deadline with zero
// days remaining is already overdue: the filing window has closed.
const dueSoonWindowDays = 30

// StatusFor derives the tracked status for a deadline from the days remaining.
// It never returns StatusCompleted; completion is an explicit user action.
func StatusFor(daysRemaining int) Status {
	switch {
	case daysRemaining <= 0:
		return StatusOverdue
	case daysRemaining <= dueSoonWindowDays:
		return StatusDueSoon
	default:
		return StatusUpcoming
	}
}

// Compute derives the desired compliance state rows for an entity from its
// latest assessment deadlines. Returns nil when there are no deadlines, so
// entities without obligations never grow tracking rows.
func Compute(entityID id.EntityID, deadlines []engine.Deadline, engineVersion string, now time.Time) []*State {
	if len(deadlines) == 0 {
		return nil
	}

	today := engine.DateOf(now)
	states := make([]*State, 0, len(deadlines))
	for _, d := range deadlines {
		days := today.DaysUntil(d.DueDate)
		states = append(states, &State{
			EntityID:      entityID,
			ObligationKey: d.ObligationKey,
			Form:          d.Form,
			DueDate:       d.DueDate,
			DaysRemaining: days,
			Status:        StatusFor(days),
			EngineVersion: engineVersion,
			ComputedAt:    now,
		})
	}
	return states
}
