// Package domain defines shared identifier types used across modules.
//
// Identifiers are distinct UUID-backed types so the compiler rejects
// cross-type assignment (an EntityID can never be passed where a UserID is
// expected). Parsing happens once, at trust boundaries; everything past the
// boundary works with typed values.
package domain

import (
	"github.com/google/uuid"

	dErrors "filingcontrol/pkg/domain-errors"
)

// UserID identifies an account owner.
type UserID uuid.UUID

// EntityID identifies a business entity (owned by exactly one user).
type EntityID uuid.UUID

// AssessmentID identifies an immutable assessment snapshot.
type AssessmentID uuid.UUID

// EventID identifies a notification event.
type EventID uuid.UUID

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseEntityID parses and validates an entity ID from its string form.
func ParseEntityID(s string) (EntityID, error) {
	u, err := parseUUID(s, "entity id")
	return EntityID(u), err
}

// ParseAssessmentID parses and validates an assessment ID from its string form.
func ParseAssessmentID(s string) (AssessmentID, error) {
	u, err := parseUUID(s, "assessment id")
	return AssessmentID(u), err
}

// ParseEventID parses and validates a notification event ID from its string form.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event id")
	return EventID(u), err
}

// NewUserID returns a freshly generated user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewEntityID returns a freshly generated entity ID.
func NewEntityID() EntityID { return EntityID(uuid.New()) }

// NewAssessmentID returns a freshly generated assessment ID.
func NewAssessmentID() AssessmentID { return AssessmentID(uuid.New()) }

// NewEventID returns a freshly generated event ID.
func NewEventID() EventID { return EventID(uuid.New()) }

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id EntityID) String() string     { return uuid.UUID(id).String() }
func (id AssessmentID) String() string { return uuid.UUID(id).String() }
func (id EventID) String() string      { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id EntityID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AssessmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the boundary invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Anything else is rejected before reaching a store lookup.
func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return u, nil
}
