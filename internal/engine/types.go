// Package engine implements the compliance rules engine: obligation
// evaluation, risk scoring, and deadline computation for foreign-owned U.S.
// LLC profiles. Everything in this package is pure domain logic - no I/O,
// no clock reads, no side effects.
package engine

import "time"

// RiskLevel is the bucketed classification of a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// ValidRiskLevel reports whether s is one of the known levels.
func ValidRiskLevel(s string) bool {
	switch RiskLevel(s) {
	case RiskLow, RiskModerate, RiskHigh:
		return true
	}
	return false
}

// EntityProfile describes one business entity at evaluation time.
// Each field maps to a questionnaire question. Immutable input; identity
// lives in the enclosing assessment.
type EntityProfile struct {
	ForeignOwner                bool `json:"foreignOwner"`
	SingleMember                bool `json:"singleMember"`
	HasEIN                      bool `json:"hasEIN"`
	HasRelatedPartyTransactions bool `json:"hasRelatedPartyTransactions"`
	HasRevenue                  bool `json:"hasRevenue"`
	Prior5472Filed              bool `json:"prior5472Filed"`
}

// AuthorityLevel tags which level of government imposes an obligation.
type AuthorityLevel string

const (
	AuthorityFederal AuthorityLevel = "federal"
	AuthorityState   AuthorityLevel = "state"
)

// DeadlineRuleKind selects how an obligation's due date is derived.
type DeadlineRuleKind string

const (
	// DeadlineFixedAnnual is a fixed calendar date (month/day) that recurs
	// yearly; the next occurrence at or after the reference date applies.
	DeadlineFixedAnnual DeadlineRuleKind = "fixed_annual"

	// DeadlineFiscalOffset is anchored N months after the entity's fiscal
	// year end, on a given day of the resulting month (clamped).
	DeadlineFiscalOffset DeadlineRuleKind = "fiscal_offset"
)

// DeadlineRule describes how to compute an obligation's due date.
type DeadlineRule struct {
	Kind DeadlineRuleKind

	// Month/Day for fixed_annual rules.
	Month time.Month
	Day   int

	// MonthsAfterFYEnd/DayOfMonth for fiscal_offset rules.
	MonthsAfterFYEnd int
	DayOfMonth       int

	// Basis is the statutory explanation carried into computed deadlines.
	Basis string
}

// Obligation is a catalog entry: a named regulatory duty with a trigger
// predicate, a risk weight, and a deadline rule.
type Obligation struct {
	Key       string
	Title     string
	Form      string // empty when the duty has no associated form
	Authority string
	Level     AuthorityLevel
	Citation  string

	// RiskWeight is this obligation's contribution to the risk score when
	// triggered. Weights are engine-versioned constants (see risk.go).
	RiskWeight int

	Deadline DeadlineRule

	// Triggered decides whether the obligation applies to a profile.
	Triggered func(EntityProfile) bool
}

// AppliedObligation is the serializable projection of a triggered catalog
// entry in a ComplianceResult.
type AppliedObligation struct {
	Key       string         `json:"key"`
	Title     string         `json:"title"`
	Form      string         `json:"form,omitempty"`
	Authority string         `json:"authority"`
	Level     AuthorityLevel `json:"level"`
	Citation  string         `json:"citation,omitempty"`
}

// PenaltyEntry is a single penalty exposure in the compliance result.
type PenaltyEntry struct {
	Code        string `json:"code"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Citation    string `json:"citation"`
}

// FiscalAnchor carries the jurisdiction-specific fiscal calendar facts needed
// by the deadline calculator.
type FiscalAnchor struct {
	// FiscalYearEndMonth is 1-12. Zero means calendar year (December).
	FiscalYearEndMonth time.Month `json:"fiscalYearEndMonth"`
}

// EndMonth resolves the anchor's fiscal year end month, defaulting to
// December for calendar-year entities.
func (a FiscalAnchor) EndMonth() time.Month {
	if a.FiscalYearEndMonth >= time.January && a.FiscalYearEndMonth <= time.December {
		return a.FiscalYearEndMonth
	}
	return time.December
}

// Deadline is one computed due date for a triggered obligation.
type Deadline struct {
	ObligationKey string `json:"obligationKey"`
	Form          string `json:"form,omitempty"`
	DueDate       Date   `json:"dueDate"`
	Basis         string `json:"basis"`
}

// ComplianceResult is the deterministic output of an evaluation run.
// Recomputing from the same profile, anchor, and reference date under the
// same engine version yields byte-identical JSON - assessments persist this
// verbatim as resultJSON.
type ComplianceResult struct {
	EntityClassification string              `json:"entityClassification"`
	Obligations          []AppliedObligation `json:"obligations"`
	RequiredForms        []string            `json:"requiredForms"`
	RiskScore            int                 `json:"riskScore"`
	RiskLevel            RiskLevel           `json:"riskLevel"`
	Penalties            []PenaltyEntry      `json:"penalties"`
	LegalBasis           []string            `json:"legalBasis"`
	Deadlines            []Deadline          `json:"deadlines,omitempty"`
	EngineVersion        string              `json:"engineVersion"`
}

// DueDateFor returns the computed due date for an obligation key.
func (r ComplianceResult) DueDateFor(key string) (Date, bool) {
	for _, d := range r.Deadlines {
		if d.ObligationKey == key {
			return d.DueDate, true
		}
	}
	return Date{}, false
}
