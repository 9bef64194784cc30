package handler

import (
	"time"

	"filingcontrol/internal/notification"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
)

// DismissRequest is the HTTP request body for
// POST /filingcontrol/notifications/dismiss.
type DismissRequest struct {
	EventID string `json:"eventId"`

	parsedEventID id.EventID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *DismissRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	eventID, err := id.ParseEventID(r.EventID)
	if err != nil {
		return err
	}
	r.parsedEventID = eventID
	return nil
}

// ParsedEventID returns the validated event ID.
func (r *DismissRequest) ParsedEventID() id.EventID {
	return r.parsedEventID
}

// EventResponse is the HTTP representation of one notification event.
type EventResponse struct {
	ID            string    `json:"id"`
	EntityID      string    `json:"entityId"`
	ObligationKey string    `json:"obligationKey"`
	Form          string    `json:"form"`
	EventType     string    `json:"eventType"`
	DueDate       string    `json:"dueDate"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromEvents converts domain events to HTTP responses, never returning nil.
func FromEvents(events []*notification.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, &EventResponse{
			ID:            e.ID.String(),
			EntityID:      e.EntityID.String(),
			ObligationKey: e.ObligationKey,
			Form:          e.Form,
			EventType:     string(e.EventType),
			DueDate:       e.DueDate.String(),
			Status:        string(e.Status),
			CreatedAt:     e.CreatedAt,
		})
	}
	return out
}
