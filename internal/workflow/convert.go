// Package workflow implements the lead edit and lead-to-opportunity
// conversion workflows on top of the in-memory stores.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"sellerconsole/internal/leads"
	"sellerconsole/internal/validation"
)

// ErrLeadNotFound indicates the lead being converted or edited is no longer in the store.
var ErrLeadNotFound = errors.New("lead no longer exists")

// Conversion is a validated, not yet applied conversion.
type Conversion struct {
	Opportunity leads.Opportunity
	UpdatedLead leads.Lead
}

// Prepare validates the draft and builds the opportunity and the qualified
// lead without touching any store.
func Prepare(ids *leads.IDGenerator, lead leads.Lead, draft leads.OpportunityDraft) (Conversion, validation.Errors) {
	if errs := validation.ValidateOpportunityDraft(draft); !errs.OK() {
		return Conversion{}, errs
	}
	amount, err := validation.ParseAmount(draft.Amount)
	if err != nil {
		return Conversion{}, validation.Errors{validation.FieldAmount: {Kind: validation.InvalidFormat, Message: err.Error()}}
	}

	opp := leads.Opportunity{
		ID:          ids.Next(),
		Name:        strings.TrimSpace(draft.Name),
		Stage:       strings.TrimSpace(draft.Stage),
		Amount:      amount,
		AccountName: strings.TrimSpace(draft.AccountName),
		CreatedFrom: lead.ID,
	}
	if opp.Name == "" {
		opp.Name = leads.DefaultOpportunityName(lead)
	}
	if opp.Stage == "" {
		opp.Stage = leads.StageProspecting
	}
	if opp.AccountName == "" {
		opp.AccountName = lead.Company
	}

	updated := lead
	updated.Status = leads.StatusQualified
	return Conversion{Opportunity: opp, UpdatedLead: updated}, nil
}

// Apply commits a prepared conversion: the lead is written back first, and
// the opportunity is appended only if that succeeded, so both happen or neither.
func Apply(store *leads.Store, opps *leads.OpportunityStore, c Conversion) error {
	if err := store.Update(c.UpdatedLead); err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			return fmt.Errorf("convert %s: %w", c.UpdatedLead.ID, ErrLeadNotFound)
		}
		return fmt.Errorf("convert %s: %w", c.UpdatedLead.ID, err)
	}
	opps.Append(c.Opportunity)
	return nil
}

// Convert validates the draft and applies the conversion in one step.
func Convert(store *leads.Store, opps *leads.OpportunityStore, ids *leads.IDGenerator, lead leads.Lead, draft leads.OpportunityDraft) (Conversion, validation.Errors) {
	c, errs := Prepare(ids, lead, draft)
	if !errs.OK() {
		return Conversion{}, errs
	}
	if err := Apply(store, opps, c); err != nil {
		return Conversion{}, validation.General("Failed to convert lead. Please try again.")
	}
	return c, nil
}
