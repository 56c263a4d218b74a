package leads

// OpportunityDraft is the unsaved conversion form. Amount stays as typed text
// until the conversion is committed.
type OpportunityDraft struct {
	Name        string `json:"name"`
	Stage       string `json:"stage"`
	Amount      string `json:"amount"`
	AccountName string `json:"accountName"`
}

// DraftFor returns the conversion form pre-filled from a lead.
func DraftFor(l Lead) OpportunityDraft {
	return OpportunityDraft{
		Name:        DefaultOpportunityName(l),
		Stage:       StageProspecting,
		AccountName: l.Company,
	}
}

// DefaultOpportunityName is the "{company} - {name}" default.
func DefaultOpportunityName(l Lead) string {
	return l.Company + " - " + l.Name
}
