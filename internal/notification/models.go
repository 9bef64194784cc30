package notification

import (
	"time"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
)

// EventType classifies a deadline notification.
type EventType string

const (
	EventDueSoon30     EventType = "DUE_SOON_30"
	EventDueSoon7      EventType = "DUE_SOON_7"
	EventDueToday      EventType = "DUE_TODAY"
	EventOverdue       EventType = "OVERDUE"
	EventStatusChanged EventType = "STATUS_CHANGED"
)

// Status is the delivery lifecycle of a notification event.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusCancelled Status = "CANCELLED"
)

// Event is one deadline notification for an obligation. EventKey is unique:
// re-running the monitor over an unchanged transition produces a duplicate
// key and the event is dropped, not stored twice.
type Event struct {
	ID            id.EventID
	EntityID      id.EntityID
	ObligationKey string
	Form          string
	EventType     EventType
	DueDate       engine.Date
	EventKey      string
	Status        Status
	CreatedAt     time.Time
}
