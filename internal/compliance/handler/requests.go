package handler

import (
	"strings"
	"time"

	"filingcontrol/internal/compliance"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
)

// CompleteRequest is the HTTP request body for
// POST /filingcontrol/compliance-state/complete.
type CompleteRequest struct {
	EntityID      string `json:"entityId"`
	ObligationKey string `json:"obligationKey"`

	parsedEntityID id.EntityID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CompleteRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	entityID, err := id.ParseEntityID(r.EntityID)
	if err != nil {
		return err
	}
	r.parsedEntityID = entityID

	r.ObligationKey = strings.TrimSpace(r.ObligationKey)
	if r.ObligationKey == "" {
		return dErrors.New(dErrors.CodeValidation, "obligationKey is required")
	}
	if len(r.ObligationKey) > 100 {
		return dErrors.New(dErrors.CodeValidation, "obligationKey must be at most 100 characters")
	}
	return nil
}

// ParsedEntityID returns the validated entity ID.
func (r *CompleteRequest) ParsedEntityID() id.EntityID {
	return r.parsedEntityID
}

// StateResponse is the HTTP representation of one tracked obligation.
type StateResponse struct {
	EntityID      string    `json:"entityId"`
	ObligationKey string    `json:"obligationKey"`
	Form          string    `json:"form"`
	DueDate       string    `json:"dueDate"`
	DaysRemaining int       `json:"daysRemaining"`
	Status        string    `json:"status"`
	EngineVersion string    `json:"engineVersion"`
	ComputedAt    time.Time `json:"computedAt"`
}

// FromStates converts domain rows to HTTP responses, never returning nil.
func FromStates(states []*compliance.State) []*StateResponse {
	out := make([]*StateResponse, 0, len(states))
	for _, s := range states {
		out = append(out, &StateResponse{
			EntityID:      s.EntityID.String(),
			ObligationKey: s.ObligationKey,
			Form:          s.Form,
			DueDate:       s.DueDate.String(),
			DaysRemaining: s.DaysRemaining,
			Status:        string(s.Status),
			EngineVersion: s.EngineVersion,
			ComputedAt:    s.ComputedAt,
		})
	}
	return out
}
