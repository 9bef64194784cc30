package engine

// Question is one intake questionnaire entry. Purely data - no UI logic.
// Question IDs match EntityProfile JSON field names one-to-one so answers
// decode directly into a profile.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

var questions = []Question{
	{
		ID:       "foreignOwner",
		Text:     "Is the LLC owned (in whole or part) by a foreign person or entity?",
		Type:     "boolean",
		Required: true,
	},
	{
		ID:       "singleMember",
		Text:     "Is this a single-member LLC (disregarded entity for tax purposes)?",
		Type:     "boolean",
		Required: true,
	},
	{
		ID:       "hasEIN",
		Text:     "Does the LLC have an Employer Identification Number (EIN)?",
		Type:     "boolean",
		Required: true,
	},
	{
		ID:       "hasRelatedPartyTransactions",
		Text:     "Has the LLC engaged in reportable transactions with related foreign parties during the tax year?",
		Type:     "boolean",
		Required: true,
	},
	{
		ID:       "hasRevenue",
		Text:     "Did the LLC receive revenue or income during the tax year?",
		Type:     "boolean",
		Required: true,
	},
	{
		ID:       "prior5472Filed",
		Text:     "Was Form 5472 filed for the most recent prior tax year (if applicable)?",
		Type:     "boolean",
		Required: true,
	},
}

// Questions returns the intake questionnaire schema. Callers must not mutate
// the returned slice.
func Questions() []Question {
	return questions
}
