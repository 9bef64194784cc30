package compliance

import (
	"time"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
)

// Status is the lifecycle state of a single filing obligation for an entity.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusDueSoon   Status = "due_soon"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

// ValidStatus reports whether s is a known compliance status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusUpcoming, StatusDueSoon, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// statusRank orders statuses by urgency for listings.
func statusRank(s Status) int {
	switch s {
	case StatusOverdue:
		return 0
	case StatusDueSoon:
		return 1
	case StatusUpcoming:
		return 2
	case StatusCompleted:
		return 3
	}
	return 4
}

// State is one tracked obligation deadline for an entity. A row is keyed by
// (entityID, obligationKey); reconciliation rewrites the row in place, except
// completed rows, which it never overwrites.
type State struct {
	EntityID      id.EntityID
	ObligationKey string
	Form          string
	DueDate       engine.Date
	DaysRemaining int
	Status        Status
	EngineVersion string
	ComputedAt    time.Time
}
