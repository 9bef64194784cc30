package engine

// Citation is a legal reference attached to rules and penalties.
// Neutral, factual descriptions only.
type Citation struct {
	Code        string
	Short       string
	Description string
}

// Citation registry. Keys are stable codes used in rule wiring.
var (
	citationForm5472 = Citation{
		Code:  "IRC_6038A",
		Short: "IRC §6038A(d)",
		Description: "Information reporting requirements for certain foreign-owned " +
			"U.S. corporations and disregarded entities.",
	}
	citationForm1120 = Citation{
		Code:  "IRC_6012",
		Short: "IRC §6012",
		Description: "Requirement to file income tax returns, including pro forma " +
			"returns for foreign-owned disregarded entities.",
	}
	citationEIN = Citation{
		Code:  "IRC_6109",
		Short: "IRC §6109",
		Description: "Requirement to furnish a taxpayer identification number (EIN) " +
			"on returns and statements.",
	}
	citationBOI = Citation{
		Code:  "CTA_5336",
		Short: "31 USC §5336",
		Description: "Beneficial ownership information reporting to FinCEN under " +
			"the Corporate Transparency Act.",
	}
	citationFBAR = Citation{
		Code:  "BSA_5314",
		Short: "31 USC §5314",
		Description: "Report of foreign bank and financial accounts (FBAR, " +
			"FinCEN Form 114).",
	}
)
