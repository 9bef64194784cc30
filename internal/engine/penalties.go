package engine

// Penalty amounts reflect published IRS penalty schedules.
// lastVerified tracks when the amount was last checked against the source.
type penalty struct {
	amount       int
	currency     string
	description  string
	citation     string
	lastVerified string
}

var penaltyForm5472Failure = penalty{
	amount:       25_000,
	currency:     "USD",
	description:  "Failure to file Form 5472",
	citation:     citationForm5472.Short,
	lastVerified: "2026-01-01",
}

func (p penalty) entry(code string) PenaltyEntry {
	return PenaltyEntry{
		Code:        code,
		Amount:      p.amount,
		Currency:    p.currency,
		Description: p.description,
		Citation:    p.citation,
	}
}
