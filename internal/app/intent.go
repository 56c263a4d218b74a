package app

import (
	"context"

	"sellerconsole/internal/leads"
	"sellerconsole/internal/workflow"
)

// Intent is a user action or the completion of a task.
type Intent interface {
	intent()
}

// Task is the asynchronous half of an action. It must not touch controller
// state; the intent it returns is dispatched when it finishes.
type Task func(ctx context.Context) Intent

// LoadLeads starts the initial dataset load.
type LoadLeads struct{}

// LeadsLoaded completes LoadLeads.
type LeadsLoaded struct {
	Leads []leads.Lead
	Err   error
}

// FilterPatch changes the non-nil filter fields.
type FilterPatch struct {
	Search        *string
	Status        *string
	SortField     *leads.SortField
	SortDirection *leads.SortDirection
}

// ChangeFilter applies a filter patch and returns to page 1.
type ChangeFilter struct {
	Patch FilterPatch
}

// ChangePage jumps to a page.
type ChangePage struct {
	Page int
}

// NextPage and PrevPage step one page.
type (
	NextPage struct{}
	PrevPage struct{}
)

// ChangePageSize picks one of leads.PageSizes and returns to page 1.
type ChangePageSize struct {
	Size int
}

// SelectLead opens the detail view of a lead.
type SelectLead struct {
	ID string
}

// CloseDetail clears the selection.
type CloseDetail struct{}

// BeginEdit copies the selected lead into an editable draft.
type BeginEdit struct{}

// EditField changes one field of the edit draft ("email" or "status").
type EditField struct {
	Field string
	Value string
}

// CancelEdit discards the edit draft.
type CancelEdit struct{}

// SubmitEdit validates the draft and starts the save.
type SubmitEdit struct{}

// EditSaved completes SubmitEdit.
type EditSaved struct {
	Lead leads.Lead
	Err  error
}

// BeginConversion opens the pre-filled conversion form.
type BeginConversion struct{}

// EditDraft changes one field of the conversion form
// ("name", "stage", "amount" or "accountName").
type EditDraft struct {
	Field string
	Value string
}

// CancelConversion closes the conversion form.
type CancelConversion struct{}

// SubmitConversion validates the form and starts the conversion.
type SubmitConversion struct{}

// ConversionCommitted completes SubmitConversion.
type ConversionCommitted struct {
	Conversion workflow.Conversion
	Err        error
}

func (LoadLeads) intent()           {}
func (LeadsLoaded) intent()         {}
func (ChangeFilter) intent()        {}
func (ChangePage) intent()          {}
func (NextPage) intent()            {}
func (PrevPage) intent()            {}
func (ChangePageSize) intent()      {}
func (SelectLead) intent()          {}
func (CloseDetail) intent()         {}
func (BeginEdit) intent()           {}
func (EditField) intent()           {}
func (CancelEdit) intent()          {}
func (SubmitEdit) intent()          {}
func (EditSaved) intent()           {}
func (BeginConversion) intent()     {}
func (EditDraft) intent()           {}
func (CancelConversion) intent()    {}
func (SubmitConversion) intent()    {}
func (ConversionCommitted) intent() {}

// Search builds a ChangeFilter for the search text.
func Search(text string) ChangeFilter {
	return ChangeFilter{Patch: FilterPatch{Search: &text}}
}

// FilterStatus builds a ChangeFilter for the status filter; "" clears it.
func FilterStatus(status string) ChangeFilter {
	return ChangeFilter{Patch: FilterPatch{Status: &status}}
}

// SortBy builds a ChangeFilter for the sort field and direction.
func SortBy(field leads.SortField, dir leads.SortDirection) ChangeFilter {
	return ChangeFilter{Patch: FilterPatch{SortField: &field, SortDirection: &dir}}
}
