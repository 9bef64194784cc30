// Package assessment owns users, entities, and immutable assessment
// snapshots. An assessment captures one evaluation run; the most recent
// snapshot per user is the source of truth the monitoring job re-reads.
package assessment

import (
	"time"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
)

// User is an account owner, found-or-created by email.
type User struct {
	ID        id.UserID
	Email     string
	CreatedAt time.Time
}

// Entity is a business entity owned by exactly one user. Created via
// onboarding; not deleted in normal flow.
type Entity struct {
	ID         id.EntityID
	UserID     id.UserID
	Name       string
	EntityType string
	CreatedAt  time.Time
}

// Assessment is an immutable snapshot of one evaluation run. Never mutated
// after creation - corrections create a new assessment. Result carries the
// full ComplianceResult, decoded defensively at the store boundary against
// the schema version recorded in EngineVersion.
type Assessment struct {
	ID            id.AssessmentID
	EntityID      id.EntityID
	UserID        id.UserID
	EngineVersion string
	RiskScore     int
	RiskLevel     engine.RiskLevel
	Result        engine.ComplianceResult
	CreatedAt     time.Time
}

// Defaults applied when entity creation requests omit optional fields.
const (
	DefaultEntityName = "Unnamed Entity"
	DefaultEntityType = "llc"
)
