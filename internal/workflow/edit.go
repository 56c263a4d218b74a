package workflow

import (
	"sellerconsole/internal/leads"
	"sellerconsole/internal/validation"
)

// SaveEdit validates the edited copy and replaces the stored lead by the
// original's id. The store is untouched when validation fails.
func SaveEdit(store *leads.Store, original, edited leads.Lead) (leads.Lead, validation.Errors) {
	if errs := validation.ValidateLeadEdit(edited); !errs.OK() {
		return leads.Lead{}, errs
	}
	edited.ID = original.ID
	if err := store.Update(edited); err != nil {
		return leads.Lead{}, validation.General("Failed to save changes. Please try again.")
	}
	return edited, nil
}
