package handler

import (
	"encoding/json"
	"strings"
	"time"

	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	dErrors "filingcontrol/pkg/domain-errors"
	"filingcontrol/pkg/email"
)

// ProfileRequest carries the six boolean answers of the compliance
// questionnaire. All fields are pointers so a missing answer can be told
// apart from an explicit false.
type ProfileRequest struct {
	ForeignOwner                *bool `json:"foreignOwner"`
	SingleMember                *bool `json:"singleMember"`
	HasEIN                      *bool `json:"hasEIN"`
	HasRelatedPartyTransactions *bool `json:"hasRelatedPartyTransactions"`
	HasRevenue                  *bool `json:"hasRevenue"`
	Prior5472Filed              *bool `json:"prior5472Filed"`
}

func (p *ProfileRequest) validate() error {
	required := []struct {
		name  string
		value *bool
	}{
		{"foreignOwner", p.ForeignOwner},
		{"singleMember", p.SingleMember},
		{"hasEIN", p.HasEIN},
		{"hasRelatedPartyTransactions", p.HasRelatedPartyTransactions},
		{"hasRevenue", p.HasRevenue},
		{"prior5472Filed", p.Prior5472Filed},
	}
	for _, f := range required {
		if f.value == nil {
			return dErrors.New(dErrors.CodeValidation, "profile."+f.name+" is required")
		}
	}
	return nil
}

func (p *ProfileRequest) toProfile() engine.EntityProfile {
	return engine.EntityProfile{
		ForeignOwner:                *p.ForeignOwner,
		SingleMember:                *p.SingleMember,
		HasEIN:                      *p.HasEIN,
		HasRelatedPartyTransactions: *p.HasRelatedPartyTransactions,
		HasRevenue:                  *p.HasRevenue,
		Prior5472Filed:              *p.Prior5472Filed,
	}
}

// EvaluateRequest is the HTTP request body for POST /filingcontrol/evaluate.
type EvaluateRequest struct {
	Profile            *ProfileRequest `json:"profile"`
	FiscalYearEndMonth int             `json:"fiscalYearEndMonth,omitempty"`
	AsOf               string          `json:"asOf,omitempty"`

	// Parsed values (populated by Validate)
	parsedAsOf engine.Date
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil || r.Profile == nil {
		return dErrors.New(dErrors.CodeValidation, "profile is required")
	}
	if err := r.Profile.validate(); err != nil {
		return err
	}
	if r.FiscalYearEndMonth < 0 || r.FiscalYearEndMonth > 12 {
		return dErrors.New(dErrors.CodeValidation, "fiscalYearEndMonth must be between 1 and 12, or omitted for calendar year")
	}
	if r.AsOf != "" {
		asOf, err := engine.ParseDate(r.AsOf)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "asOf must be a YYYY-MM-DD date")
		}
		r.parsedAsOf = asOf
	}
	return nil
}

// ParsedProfile returns the validated entity profile.
func (r *EvaluateRequest) ParsedProfile() engine.EntityProfile {
	return r.Profile.toProfile()
}

// ParsedAnchor returns the fiscal anchor for deadline computation.
func (r *EvaluateRequest) ParsedAnchor() engine.FiscalAnchor {
	return engine.FiscalAnchor{FiscalYearEndMonth: time.Month(r.FiscalYearEndMonth)}
}

// ParsedAsOf returns the validated reference date, zero when omitted.
func (r *EvaluateRequest) ParsedAsOf() engine.Date {
	return r.parsedAsOf
}

// CreateUserRequest is the HTTP request body for POST /filingcontrol/users.
type CreateUserRequest struct {
	Email string `json:"email"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	normalized, err := email.Normalize(r.Email)
	if err != nil {
		return err
	}
	r.Email = normalized
	return nil
}

// CreateEntityRequest is the HTTP request body for POST /filingcontrol/entities.
type CreateEntityRequest struct {
	Name       string `json:"name"`
	EntityType string `json:"entityType"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateEntityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 200 characters")
	}
	if len(r.EntityType) > 50 {
		return dErrors.New(dErrors.CodeValidation, "entityType must be at most 50 characters")
	}
	return nil
}

// CreateAssessmentRequest is the HTTP request body for
// POST /filingcontrol/assessments. It persists an externally computed
// snapshot without re-running the engine.
type CreateAssessmentRequest struct {
	EntityID      string          `json:"entityId"`
	EngineVersion string          `json:"engineVersion"`
	RiskScore     int             `json:"riskScore"`
	RiskLevel     string          `json:"riskLevel"`
	Result        json.RawMessage `json:"result"`

	// Parsed values (populated by Validate)
	parsedEntityID id.EntityID
	parsedResult   engine.ComplianceResult
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateAssessmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	entityID, err := id.ParseEntityID(r.EntityID)
	if err != nil {
		return err
	}
	r.parsedEntityID = entityID

	r.EngineVersion = strings.TrimSpace(r.EngineVersion)
	if r.EngineVersion == "" {
		return dErrors.New(dErrors.CodeValidation, "engineVersion is required")
	}
	if r.RiskScore < 0 {
		return dErrors.New(dErrors.CodeValidation, "riskScore must be non-negative")
	}
	if !engine.ValidRiskLevel(r.RiskLevel) {
		return dErrors.New(dErrors.CodeValidation, "riskLevel must be one of LOW, MODERATE, HIGH")
	}
	if len(r.Result) == 0 {
		return dErrors.New(dErrors.CodeValidation, "result is required")
	}
	if err := json.Unmarshal(r.Result, &r.parsedResult); err != nil {
		return dErrors.New(dErrors.CodeValidation, "result must be a valid compliance result document")
	}
	return nil
}

// ParsedEntityID returns the validated entity ID.
func (r *CreateAssessmentRequest) ParsedEntityID() id.EntityID {
	return r.parsedEntityID
}

// ParsedResult returns the decoded compliance result.
func (r *CreateAssessmentRequest) ParsedResult() engine.ComplianceResult {
	return r.parsedResult
}

// RunAssessmentRequest is the HTTP request body for
// POST /filingcontrol/assessments/run. It runs the full evaluation
// pipeline for an entity and persists the snapshot.
type RunAssessmentRequest struct {
	EntityID           string          `json:"entityId"`
	Profile            *ProfileRequest `json:"profile"`
	FiscalYearEndMonth int             `json:"fiscalYearEndMonth,omitempty"`

	parsedEntityID id.EntityID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RunAssessmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	entityID, err := id.ParseEntityID(r.EntityID)
	if err != nil {
		return err
	}
	r.parsedEntityID = entityID

	if r.Profile == nil {
		return dErrors.New(dErrors.CodeValidation, "profile is required")
	}
	if err := r.Profile.validate(); err != nil {
		return err
	}
	if r.FiscalYearEndMonth < 0 || r.FiscalYearEndMonth > 12 {
		return dErrors.New(dErrors.CodeValidation, "fiscalYearEndMonth must be between 1 and 12, or omitted for calendar year")
	}
	return nil
}

// ParsedEntityID returns the validated entity ID.
func (r *RunAssessmentRequest) ParsedEntityID() id.EntityID {
	return r.parsedEntityID
}

// ParsedProfile returns the validated entity profile.
func (r *RunAssessmentRequest) ParsedProfile() engine.EntityProfile {
	return r.Profile.toProfile()
}

// ParsedAnchor returns the fiscal anchor for deadline computation.
func (r *RunAssessmentRequest) ParsedAnchor() engine.FiscalAnchor {
	return engine.FiscalAnchor{FiscalYearEndMonth: time.Month(r.FiscalYearEndMonth)}
}
