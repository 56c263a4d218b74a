// Package app owns the console's view state and turns intents into store
// mutations and asynchronous tasks.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sellerconsole/internal/leads"
	"sellerconsole/internal/validation"
	"sellerconsole/internal/workflow"
)

// Phase tracks the initial load.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

// Mode is what the detail view is doing.
type Mode int

const (
	ModeView Mode = iota
	ModeEditing
	ModeConverting
)

// Action names an operation with a single in-flight guard.
type Action string

const (
	ActionLoad    Action = "load"
	ActionSave    Action = "save"
	ActionConvert Action = "convert"
)

const (
	msgLoadFailed    = "Failed to load leads"
	msgSaveFailed    = "Failed to save changes. Please try again."
	msgConvertFailed = "Failed to convert lead. Please try again."
)

// Selection is the open detail view with its drafts.
type Selection struct {
	LeadID string
	Mode   Mode
	Edit   leads.Lead
	Draft  leads.OpportunityDraft
	Errors validation.Errors
}

// State is everything the controller owns besides the stores.
type State struct {
	Phase      Phase
	LoadError  string
	Filters    leads.FilterState
	Pagination leads.PaginationState
	Selected   *Selection
	Notice     string
	busy       map[Action]bool
}

// Busy reports whether a task for action is in flight.
func (s State) Busy(a Action) bool {
	return s.busy[a]
}

// Preferences persists the view state. Implemented by storage.Preferences.
type Preferences interface {
	SaveFilters(ctx context.Context, f leads.FilterState) error
	SavePagination(ctx context.Context, p leads.PaginationState) error
}

// Options wires a Controller.
type Options struct {
	Loader      workflow.Loader
	Gateway     workflow.Gateway
	Preferences Preferences
	IDs         *leads.IDGenerator
	Filters     leads.FilterState
	Pagination  leads.PaginationState
	Logger      *zap.Logger
	Context     context.Context
}

// Controller is the single owner of the lead store, the opportunity store,
// the filter and pagination state and the selection. It is not safe for
// concurrent use; call Dispatch from one goroutine.
type Controller struct {
	state   State
	leads   *leads.Store
	opps    *leads.OpportunityStore
	ids     *leads.IDGenerator
	loader  workflow.Loader
	gateway workflow.Gateway
	prefs   Preferences
	log     *zap.Logger
	ctx     context.Context
}

// New builds a controller. Invalid restored filter or pagination state is
// replaced with the defaults.
func New(opts Options) *Controller {
	c := &Controller{
		leads:   leads.NewStore(nil),
		opps:    leads.NewOpportunityStore(),
		ids:     opts.IDs,
		loader:  opts.Loader,
		gateway: opts.Gateway,
		prefs:   opts.Preferences,
		log:     opts.Logger,
		ctx:     opts.Context,
	}
	if c.ids == nil {
		c.ids = leads.NewIDGenerator()
	}
	if c.gateway == nil {
		c.gateway = workflow.Simulated{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}

	c.state = State{
		Filters:    opts.Filters,
		Pagination: opts.Pagination,
		busy:       map[Action]bool{},
	}
	if !c.state.Filters.Valid() {
		c.state.Filters = leads.DefaultFilters()
	}
	if c.state.Pagination.CurrentPage < 1 || !leads.ValidPageSize(c.state.Pagination.ItemsPerPage) {
		c.state.Pagination = leads.DefaultPagination()
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	if c.state.Selected != nil {
		sel := *c.state.Selected
		s.Selected = &sel
	}
	return s
}

// Leads exposes the lead store for reading.
func (c *Controller) Leads() []leads.Lead {
	return c.leads.All()
}

// Opportunities returns the opportunities in insertion order.
func (c *Controller) Opportunities() []leads.Opportunity {
	return c.opps.All()
}

// Dispatch applies an intent and returns the task to run, if any.
func (c *Controller) Dispatch(in Intent) Task {
	switch in.(type) {
	case LeadsLoaded, EditSaved, ConversionCommitted:
	default:
		c.state.Notice = ""
	}
	c.log.Debug("dispatch", zap.String("intent", fmt.Sprintf("%T", in)))

	switch in := in.(type) {
	case LoadLeads:
		return c.loadLeads()
	case LeadsLoaded:
		c.leadsLoaded(in)
	case ChangeFilter:
		c.changeFilter(in.Patch)
	case ChangePage:
		c.changePage(in.Page)
	case NextPage:
		c.changePage(c.state.Pagination.CurrentPage + 1)
	case PrevPage:
		c.changePage(c.state.Pagination.CurrentPage - 1)
	case ChangePageSize:
		c.changePageSize(in.Size)
	case SelectLead:
		c.selectLead(in.ID)
	case CloseDetail:
		if !c.state.Busy(ActionSave) && !c.state.Busy(ActionConvert) {
			c.state.Selected = nil
		}
	case BeginEdit:
		c.beginEdit()
	case EditField:
		c.editField(in.Field, in.Value)
	case CancelEdit:
		c.cancelEdit()
	case SubmitEdit:
		return c.submitEdit()
	case EditSaved:
		c.editSaved(in)
	case BeginConversion:
		c.beginConversion()
	case EditDraft:
		c.editDraft(in.Field, in.Value)
	case CancelConversion:
		c.cancelConversion()
	case SubmitConversion:
		return c.submitConversion()
	case ConversionCommitted:
		c.conversionCommitted(in)
	default:
		c.log.Warn("unknown intent", zap.String("intent", fmt.Sprintf("%T", in)))
	}
	return nil
}

func (c *Controller) loadLeads() Task {
	// a failed load is final for the session
	if c.state.Phase != PhaseIdle || c.state.Busy(ActionLoad) || c.loader == nil {
		return nil
	}
	c.state.busy[ActionLoad] = true
	c.state.Phase = PhaseLoading
	loader := c.loader
	return func(ctx context.Context) Intent {
		list, err := loader.Load(ctx)
		return LeadsLoaded{Leads: list, Err: err}
	}
}

func (c *Controller) leadsLoaded(in LeadsLoaded) {
	c.state.busy[ActionLoad] = false
	if in.Err != nil {
		c.state.Phase = PhaseFailed
		c.state.LoadError = msgLoadFailed
		c.log.Error("load leads", zap.Error(in.Err))
		return
	}
	c.leads = leads.NewStore(in.Leads)
	c.state.Phase = PhaseReady
	c.state.LoadError = ""
	c.log.Info("leads loaded", zap.Int("count", c.leads.Len()))

	// restored pagination may point past the end of the current result
	pages := c.totalPages()
	if c.state.Pagination.CurrentPage > maxInt(1, pages) {
		c.state.Pagination.CurrentPage = maxInt(1, pages)
		c.savePagination()
	}
}

func (c *Controller) changeFilter(p FilterPatch) {
	f := c.state.Filters
	if p.Search != nil {
		f.Search = *p.Search
	}
	if p.Status != nil {
		if *p.Status == "" {
			f.Status = ""
		} else if s, ok := leads.ParseStatus(*p.Status); ok {
			f.Status = string(s)
		}
	}
	if p.SortField != nil && p.SortField.Valid() {
		f.SortField = *p.SortField
	}
	if p.SortDirection != nil && p.SortDirection.Valid() {
		f.SortDirection = *p.SortDirection
	}
	c.state.Filters = f
	c.state.Pagination.CurrentPage = 1
	c.saveFilters()
	c.savePagination()
}

func (c *Controller) changePage(page int) {
	pages := maxInt(1, c.totalPages())
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	if page == c.state.Pagination.CurrentPage {
		return
	}
	c.state.Pagination.CurrentPage = page
	c.savePagination()
}

func (c *Controller) changePageSize(size int) {
	if !leads.ValidPageSize(size) {
		c.state.Notice = fmt.Sprintf("Page size must be one of %v", leads.PageSizes)
		return
	}
	c.state.Pagination = leads.PaginationState{CurrentPage: 1, ItemsPerPage: size}
	c.savePagination()
}

func (c *Controller) selectLead(id string) {
	l, err := c.leads.Get(id)
	if err != nil {
		c.state.Notice = "Lead not found"
		return
	}
	c.state.Selected = &Selection{
		LeadID: l.ID,
		Mode:   ModeView,
		Edit:   l,
		Draft:  leads.DraftFor(l),
	}
}

// current returns the selection together with the lead's committed record.
func (c *Controller) current() (*Selection, leads.Lead, bool) {
	sel := c.state.Selected
	if sel == nil {
		return nil, leads.Lead{}, false
	}
	l, err := c.leads.Get(sel.LeadID)
	if err != nil {
		return nil, leads.Lead{}, false
	}
	return sel, l, true
}

func (c *Controller) beginEdit() {
	sel, l, ok := c.current()
	if !ok || sel.Mode != ModeView {
		return
	}
	sel.Mode = ModeEditing
	sel.Edit = l
	sel.Errors = nil
}

func (c *Controller) editField(field, value string) {
	sel, _, ok := c.current()
	if !ok || sel.Mode != ModeEditing || c.state.Busy(ActionSave) {
		return
	}
	switch field {
	case "email":
		sel.Edit.Email = value
		delete(sel.Errors, validation.FieldEmail)
	case "status":
		s, ok := leads.ParseStatus(value)
		if !ok {
			if sel.Errors == nil {
				sel.Errors = validation.Errors{}
			}
			sel.Errors["status"] = validation.FieldError{Kind: validation.InvalidFormat, Message: "Unknown status"}
			return
		}
		sel.Edit.Status = s
		delete(sel.Errors, "status")
	}
}

func (c *Controller) cancelEdit() {
	sel, l, ok := c.current()
	if !ok || sel.Mode != ModeEditing || c.state.Busy(ActionSave) {
		return
	}
	sel.Mode = ModeView
	sel.Edit = l
	sel.Errors = nil
}

func (c *Controller) submitEdit() Task {
	sel, _, ok := c.current()
	if !ok || sel.Mode != ModeEditing || c.state.Busy(ActionSave) {
		return nil
	}
	if errs := validation.ValidateLeadEdit(sel.Edit); !errs.OK() {
		sel.Errors = errs
		return nil
	}
	sel.Errors = nil
	c.state.busy[ActionSave] = true
	edited := sel.Edit
	gw := c.gateway
	return func(ctx context.Context) Intent {
		return EditSaved{Lead: edited, Err: gw.SaveLead(ctx, edited)}
	}
}

func (c *Controller) editSaved(in EditSaved) {
	c.state.busy[ActionSave] = false
	sel := c.state.Selected
	if sel != nil && sel.LeadID != in.Lead.ID {
		sel = nil
	}
	fail := func(errs validation.Errors) {
		if sel != nil {
			sel.Errors = errs
		}
	}

	if in.Err != nil {
		c.log.Warn("save lead", zap.String("lead", in.Lead.ID), zap.Error(in.Err))
		fail(validation.General(msgSaveFailed))
		return
	}
	original, err := c.leads.Get(in.Lead.ID)
	if err != nil {
		c.log.Warn("save lead", zap.String("lead", in.Lead.ID), zap.Error(err))
		fail(validation.General(msgSaveFailed))
		return
	}
	saved, errs := workflow.SaveEdit(c.leads, original, in.Lead)
	if !errs.OK() {
		fail(errs)
		return
	}
	if sel != nil {
		sel.Mode = ModeView
		sel.Edit = saved
		sel.Errors = nil
	}
	c.state.Notice = fmt.Sprintf("Saved %s", saved.Name)
	c.log.Info("lead saved", zap.String("lead", saved.ID))
}

func (c *Controller) beginConversion() {
	sel, l, ok := c.current()
	if !ok || sel.Mode != ModeView {
		return
	}
	sel.Mode = ModeConverting
	sel.Draft = leads.DraftFor(l)
	sel.Errors = nil
}

func (c *Controller) editDraft(field, value string) {
	sel, _, ok := c.current()
	if !ok || sel.Mode != ModeConverting || c.state.Busy(ActionConvert) {
		return
	}
	switch field {
	case validation.FieldName:
		sel.Draft.Name = value
	case "stage":
		sel.Draft.Stage = value
	case validation.FieldAmount:
		sel.Draft.Amount = value
	case validation.FieldAccountName:
		sel.Draft.AccountName = value
	default:
		return
	}
	delete(sel.Errors, field)
}

func (c *Controller) cancelConversion() {
	sel, _, ok := c.current()
	if !ok || sel.Mode != ModeConverting || c.state.Busy(ActionConvert) {
		return
	}
	sel.Mode = ModeView
	sel.Errors = nil
}

func (c *Controller) submitConversion() Task {
	sel, l, ok := c.current()
	if !ok || sel.Mode != ModeConverting || c.state.Busy(ActionConvert) {
		return nil
	}
	conv, errs := workflow.Prepare(c.ids, l, sel.Draft)
	if !errs.OK() {
		sel.Errors = errs
		return nil
	}
	sel.Errors = nil
	c.state.busy[ActionConvert] = true
	gw := c.gateway
	return func(ctx context.Context) Intent {
		return ConversionCommitted{Conversion: conv, Err: gw.CreateOpportunity(ctx, conv)}
	}
}

func (c *Controller) conversionCommitted(in ConversionCommitted) {
	c.state.busy[ActionConvert] = false
	leadID := in.Conversion.Opportunity.CreatedFrom
	sel := c.state.Selected
	if sel != nil && sel.LeadID != leadID {
		sel = nil
	}

	err := in.Err
	if err == nil {
		// qualify the record as it is now, not as it was when the form was submitted
		var current leads.Lead
		if current, err = c.leads.Get(leadID); err == nil {
			current.Status = leads.StatusQualified
			in.Conversion.UpdatedLead = current
			err = workflow.Apply(c.leads, c.opps, in.Conversion)
		}
	}
	if err != nil {
		c.log.Warn("convert lead", zap.String("lead", leadID), zap.Error(err))
		if sel != nil {
			sel.Errors = validation.General(msgConvertFailed)
		}
		return
	}

	if sel != nil {
		c.state.Selected = nil
	}
	c.state.Notice = fmt.Sprintf("Created opportunity %s", in.Conversion.Opportunity.Name)
	c.log.Info("lead converted",
		zap.String("lead", leadID),
		zap.String("opportunity", in.Conversion.Opportunity.ID))
}

func (c *Controller) totalPages() int {
	return leads.Derive(c.leads.All(), c.state.Filters, c.state.Pagination).TotalPages
}

func (c *Controller) saveFilters() {
	if c.prefs == nil {
		return
	}
	if err := c.prefs.SaveFilters(c.ctx, c.state.Filters); err != nil {
		c.log.Warn("persist filters", zap.Error(err))
	}
}

func (c *Controller) savePagination() {
	if c.prefs == nil {
		return
	}
	if err := c.prefs.SavePagination(c.ctx, c.state.Pagination); err != nil {
		c.log.Warn("persist pagination", zap.Error(err))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// View is the derived data a screen needs to render.
type View struct {
	Phase         Phase
	LoadError     string
	Notice        string
	Filters       leads.FilterState
	Pagination    leads.PaginationState
	Result        leads.Result
	Window        []int
	First, Last   int
	Total         int
	Opportunities []leads.Opportunity
	Selected      *Selection
	Lead          leads.Lead
	Saving        bool
	Converting    bool
}

// View derives the current page, the pagination window and the selection.
func (c *Controller) View() View {
	all := c.leads.All()
	res := leads.Derive(all, c.state.Filters, c.state.Pagination)
	first, last := leads.RangeInfo(c.state.Pagination, res.TotalFiltered)
	v := View{
		Phase:         c.state.Phase,
		LoadError:     c.state.LoadError,
		Notice:        c.state.Notice,
		Filters:       c.state.Filters,
		Pagination:    c.state.Pagination,
		Result:        res,
		Window:        leads.PageWindow(c.state.Pagination.CurrentPage, res.TotalPages),
		First:         first,
		Last:          last,
		Total:         len(all),
		Opportunities: c.opps.All(),
		Saving:        c.state.Busy(ActionSave),
		Converting:    c.state.Busy(ActionConvert),
	}
	if sel, l, ok := c.current(); ok {
		cp := *sel
		v.Selected = &cp
		v.Lead = l
	}
	return v
}
