package engine

import "time"

// Obligation keys. Stable identifiers - compliance state rows and
// notification event keys reference them, so renames are breaking.
const (
	KeyForm5472        = "irs_form_5472"
	KeyProForma1120    = "irs_pro_forma_1120"
	KeyEINApplication  = "irs_ein_application"
	KeyBOIReport       = "fincen_boi"
	KeyFBAR            = "fincen_fbar"
	KeyAnnualReport    = "state_annual_report"
	KeyFranchiseTax    = "state_franchise_tax"
)

// catalog is the master obligation registry for foreign-owned U.S. LLCs.
// Order is significant: results list obligations in catalog order, which
// keeps evaluation output byte-deterministic.
var catalog = []Obligation{
	{
		Key:        KeyForm5472,
		Title:      "File Form 5472 with Pro Forma 1120",
		Form:       "Form 5472",
		Authority:  "IRS",
		Level:      AuthorityFederal,
		Citation:   citationForm5472.Short,
		RiskWeight: 30,
		Deadline: DeadlineRule{
			Kind:             DeadlineFiscalOffset,
			MonthsAfterFYEnd: 4,
			DayOfMonth:       15,
			Basis:            "IRC §6038A reporting due by the 15th day of the 4th month after fiscal year end",
		},
		Triggered: func(p EntityProfile) bool {
			return p.ForeignOwner && (p.SingleMember || p.HasRelatedPartyTransactions)
		},
	},
	{
		Key:        KeyProForma1120,
		Title:      "File Pro Forma Form 1120",
		Form:       "Pro Forma Form 1120",
		Authority:  "IRS",
		Level:      AuthorityFederal,
		Citation:   citationForm1120.Short,
		RiskWeight: 10,
		Deadline: DeadlineRule{
			Kind:             DeadlineFiscalOffset,
			MonthsAfterFYEnd: 4,
			DayOfMonth:       15,
			Basis:            "Pro forma return due with Form 5472 (IRC §6038A)",
		},
		Triggered: func(p EntityProfile) bool {
			return p.ForeignOwner && p.SingleMember
		},
	},
	{
		Key:        KeyEINApplication,
		Title:      "Apply for EIN (Form SS-4)",
		Form:       "Form SS-4",
		Authority:  "IRS",
		Level:      AuthorityFederal,
		Citation:   citationEIN.Short,
		RiskWeight: 20,
		Deadline: DeadlineRule{
			Kind:             DeadlineFiscalOffset,
			MonthsAfterFYEnd: 1,
			DayOfMonth:       15,
			Basis:            "EIN required on returns and statements (IRC §6109); obtain before filing season",
		},
		Triggered: func(p EntityProfile) bool {
			return !p.HasEIN
		},
	},
	{
		Key:        KeyBOIReport,
		Title:      "Beneficial Ownership Information report",
		Form:       "BOI Report (FinCEN)",
		Authority:  "FinCEN",
		Level:      AuthorityFederal,
		Citation:   citationBOI.Short,
		RiskWeight: 10,
		Deadline: DeadlineRule{
			Kind:  DeadlineFixedAnnual,
			Month: time.January,
			Day:   1,
			Basis: "Corporate Transparency Act beneficial ownership reporting (31 USC §5336)",
		},
		Triggered: func(p EntityProfile) bool {
			return p.ForeignOwner
		},
	},
	{
		Key:        KeyFBAR,
		Title:      "FinCEN FBAR (Form 114)",
		Form:       "FinCEN Form 114",
		Authority:  "FinCEN",
		Level:      AuthorityFederal,
		Citation:   citationFBAR.Short,
		RiskWeight: 10,
		Deadline: DeadlineRule{
			Kind:  DeadlineFixedAnnual,
			Month: time.April,
			Day:   15,
			Basis: "Report of foreign bank and financial accounts due April 15 (31 USC §5314)",
		},
		Triggered: func(p EntityProfile) bool {
			return p.ForeignOwner && p.HasRevenue
		},
	},
	{
		Key:        KeyAnnualReport,
		Title:      "File state annual report",
		Authority:  "Secretary of State",
		Level:      AuthorityState,
		RiskWeight: 5,
		Deadline: DeadlineRule{
			Kind:  DeadlineFixedAnnual,
			Month: time.May,
			Day:   1,
			Basis: "Annual report filing with the state of formation",
		},
		Triggered: func(p EntityProfile) bool {
			return true
		},
	},
	{
		Key:        KeyFranchiseTax,
		Title:      "Pay state franchise / business tax",
		Authority:  "State revenue department",
		Level:      AuthorityState,
		RiskWeight: 5,
		Deadline: DeadlineRule{
			Kind:             DeadlineFiscalOffset,
			MonthsAfterFYEnd: 4,
			DayOfMonth:       15,
			Basis:            "Franchise or business privilege tax for revenue-generating entities",
		},
		Triggered: func(p EntityProfile) bool {
			return p.HasRevenue
		},
	},
}

// Catalog returns the obligation registry. Callers must not mutate entries.
func Catalog() []Obligation {
	return catalog
}

// ObligationByKey looks up a catalog entry by its stable key.
func ObligationByKey(key string) (Obligation, bool) {
	for _, o := range catalog {
		if o.Key == key {
			return o, true
		}
	}
	return Obligation{}, false
}

// TriggeredObligations returns the catalog entries whose predicates hold for
// the profile, in catalog order.
func TriggeredObligations(profile EntityProfile) []Obligation {
	var out []Obligation
	for _, o := range catalog {
		if o.Triggered(profile) {
			out = append(out, o)
		}
	}
	return out
}
