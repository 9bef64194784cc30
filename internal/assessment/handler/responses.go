package handler

import (
	"time"

	"filingcontrol/internal/assessment"
	"filingcontrol/internal/engine"
)

// UserResponse is the HTTP response for POST /filingcontrol/users.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromUser converts a domain user to an HTTP response.
func FromUser(u *assessment.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// EntityResponse is the HTTP representation of a business entity.
type EntityResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	EntityType string    `json:"entityType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromEntity converts a domain entity to an HTTP response.
func FromEntity(e *assessment.Entity) *EntityResponse {
	return &EntityResponse{
		ID:         e.ID.String(),
		UserID:     e.UserID.String(),
		Name:       e.Name,
		EntityType: e.EntityType,
		CreatedAt:  e.CreatedAt,
	}
}

// FromEntities converts a slice of entities, never returning nil.
func FromEntities(entities []*assessment.Entity) []*EntityResponse {
	out := make([]*EntityResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, FromEntity(e))
	}
	return out
}

// AssessmentResponse is the HTTP representation of an assessment snapshot.
type AssessmentResponse struct {
	ID            string                  `json:"id"`
	EntityID      string                  `json:"entityId"`
	UserID        string                  `json:"userId"`
	EngineVersion string                  `json:"engineVersion"`
	RiskScore     int                     `json:"riskScore"`
	RiskLevel     engine.RiskLevel        `json:"riskLevel"`
	Result        engine.ComplianceResult `json:"result"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// FromAssessment converts a domain snapshot to an HTTP response.
func FromAssessment(a *assessment.Assessment) *AssessmentResponse {
	return &AssessmentResponse{
		ID:            a.ID.String(),
		EntityID:      a.EntityID.String(),
		UserID:        a.UserID.String(),
		EngineVersion: a.EngineVersion,
		RiskScore:     a.RiskScore,
		RiskLevel:     a.RiskLevel,
		Result:        a.Result,
		CreatedAt:     a.CreatedAt,
	}
}

// FromAssessments converts a slice of snapshots, never returning nil.
func FromAssessments(assessments []*assessment.Assessment) []*AssessmentResponse {
	out := make([]*AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, FromAssessment(a))
	}
	return out
}
