package engine

// Evaluate applies the rule catalog to an entity profile and produces a
// ComplianceResult without deadlines (those require a fiscal anchor and a
// reference date; see Assess).
//
// Pure, total, deterministic: identical input always produces identical
// output. The caller is responsible for boundary validation - Evaluate
// assumes a fully-populated, type-valid profile and has no error path.
func Evaluate(profile EntityProfile) ComplianceResult {
	triggered := TriggeredObligations(profile)
	risk := CalculateRisk(profile, triggered)

	classification := "U.S. LLC"
	if profile.ForeignOwner && profile.SingleMember {
		classification = "Foreign-Owned Single-Member U.S. LLC"
	}

	obligations := make([]AppliedObligation, 0, len(triggered))
	requiredForms := make([]string, 0, len(triggered))
	legalBasis := make([]string, 0, len(triggered))
	var penalties []PenaltyEntry

	for _, o := range triggered {
		obligations = append(obligations, AppliedObligation{
			Key:       o.Key,
			Title:     o.Title,
			Form:      o.Form,
			Authority: o.Authority,
			Level:     o.Level,
			Citation:  o.Citation,
		})
		if o.Form != "" {
			requiredForms = append(requiredForms, o.Form)
		}
		if o.Citation != "" {
			legalBasis = appendUnique(legalBasis, o.Citation)
		}
		if o.Key == KeyForm5472 {
			penalties = append(penalties, penaltyForm5472Failure.entry("FORM_5472_FAILURE"))
		}
	}

	if penalties == nil {
		penalties = []PenaltyEntry{}
	}

	return ComplianceResult{
		EntityClassification: classification,
		Obligations:          obligations,
		RequiredForms:        requiredForms,
		RiskScore:            risk.Score,
		RiskLevel:            risk.Level,
		Penalties:            penalties,
		LegalBasis:           legalBasis,
		EngineVersion:        EngineVersion,
	}
}

// Assess runs the full pipeline: evaluate obligations and risk, then compute
// concrete due dates against the fiscal anchor and reference date. This is
// the result persisted verbatim as an assessment's resultJSON.
func Assess(profile EntityProfile, anchor FiscalAnchor, asOf Date) ComplianceResult {
	result := Evaluate(profile)
	result.Deadlines = ComputeDeadlines(TriggeredObligations(profile), anchor, asOf)
	return result
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
