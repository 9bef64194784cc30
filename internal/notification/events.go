package notification

// Pure event derivation - no I/O.

import (
	"fmt"

	"filingcontrol/internal/compliance"
	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
)

// threshold pairs a days-remaining boundary with the event emitted when a
// deadline crosses it. Ordered from farthest out to most urgent so a big
// jump emits every milestone it passed.
type threshold struct {
	days      int
	eventType EventType
}

var thresholds = []threshold{
	{30, EventDueSoon30},
	{7, EventDueSoon7},
	{0, EventDueToday},
	{-1, EventOverdue},
}

// BuildEventKey derives the deterministic dedupe key for an event. One
// obligation can fire each event type at most once per due date.
func BuildEventKey(entityID id.EntityID, obligationKey string, eventType EventType, dueDate engine.Date) string {
	return fmt.Sprintf("%s:%s:%s:%s", entityID, obligationKey, eventType, dueDate)
}

// ComputeEvents derives the notification events for one obligation's
// transition from prev (the stored row before reconciliation, nil on first
// sight) to next. Threshold events fire when the days remaining cross a
// boundary between the two observations; STATUS_CHANGED fires on any status
// transition of a previously tracked row.
//
// Returned events carry no ID or timestamp; the caller stamps those when
// persisting.
func ComputeEvents(prev *compliance.State, next *compliance.State) []*Event {
	if next == nil {
		return nil
	}

	prevDays := prevDaysRemaining(prev, next)

	var events []*Event
	for _, th := range thresholds {
		if prevDays > th.days && next.DaysRemaining <= th.days {
			events = append(events, newEvent(next, th.eventType))
		}
	}
	if prev != nil && prev.Status != next.Status {
		events = append(events, newEvent(next, EventStatusChanged))
	}
	return events
}

// prevDaysRemaining recomputes the previous observation's days remaining
// against its own due date, so a due-date shift (new filing cycle) is seen
// as a fresh deadline rather than a threshold crossing.
func prevDaysRemaining(prev, next *compliance.State) int {
	if prev == nil || prev.DueDate != next.DueDate {
		// Never observed at this due date: only boundaries already reached
		// should fire.
		return int(^uint(0) >> 1)
	}
	return engine.DateOf(prev.ComputedAt).DaysUntil(prev.DueDate)
}

func newEvent(next *compliance.State, eventType EventType) *Event {
	return &Event{
		EntityID:      next.EntityID,
		ObligationKey: next.ObligationKey,
		Form:          next.Form,
		EventType:     eventType,
		DueDate:       next.DueDate,
		EventKey:      BuildEventKey(next.EntityID, next.ObligationKey, eventType, next.DueDate),
		Status:        StatusPending,
	}
}
