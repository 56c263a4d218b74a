package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sellerconsole/internal/app"
	"sellerconsole/internal/leads"
	"sellerconsole/internal/validation"
)

const fieldStatus = "status"
const fieldStage = "stage"

type formField struct {
	key      string
	label    string
	value    string
	required bool
}

// leadForm steps through the fields of the edit or conversion draft one at a time.
type leadForm struct {
	converting bool
	index      int
	fields     []formField
	input      textinput.Model
}

func newEditForm(l leads.Lead) leadForm {
	return newLeadForm(false, []formField{
		{key: validation.FieldEmail, label: "Email", value: l.Email, required: true},
		{key: fieldStatus, label: "Status (" + joinStatuses() + ")", value: string(l.Status), required: true},
	})
}

func newConvertForm(d leads.OpportunityDraft) leadForm {
	return newLeadForm(true, []formField{
		{key: validation.FieldName, label: "Opportunity name", value: d.Name, required: true},
		{key: fieldStage, label: "Stage (" + strings.Join(leads.Stages, ", ") + ")", value: d.Stage},
		{key: validation.FieldAmount, label: "Amount (optional)", value: d.Amount},
		{key: validation.FieldAccountName, label: "Account name", value: d.AccountName, required: true},
	})
}

func newLeadForm(converting bool, fields []formField) leadForm {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.Focus()
	form := leadForm{converting: converting, fields: fields, input: ti}
	form.focusField(0)
	return form
}

func (f *leadForm) focusField(idx int) {
	if idx < 0 || idx >= len(f.fields) {
		return
	}
	f.index = idx
	f.input.Placeholder = f.fields[idx].label
	f.input.SetValue(f.fields[idx].value)
	f.input.CursorEnd()
}

func (f *leadForm) current() formField {
	return f.fields[f.index]
}

func (f *leadForm) last() bool {
	return f.index >= len(f.fields)-1
}

// focusFirstError moves to the first field reported in errs.
func (f *leadForm) focusFirstError(errs validation.Errors) bool {
	for i, field := range f.fields {
		if _, ok := errs[field.key]; ok {
			f.focusField(i)
			return true
		}
	}
	return false
}

func (f *leadForm) fieldIntent(value string) app.Intent {
	field := f.current()
	if f.converting {
		if field.key == fieldStage {
			value = resolveStage(value)
		}
		return app.EditDraft{Field: field.key, Value: value}
	}
	return app.EditField{Field: field.key, Value: value}
}

func (f *leadForm) submitIntent() app.Intent {
	if f.converting {
		return app.SubmitConversion{}
	}
	return app.SubmitEdit{}
}

func (f *leadForm) cancelIntent() app.Intent {
	if f.converting {
		return app.CancelConversion{}
	}
	return app.CancelEdit{}
}

// syncFrom copies the committed draft values back into the form.
func (f *leadForm) syncFrom(sel *app.Selection) {
	if sel == nil {
		return
	}
	for i := range f.fields {
		f.fields[i].value = selectionValue(sel, f.fields[i].key, f.converting)
	}
}

func selectionValue(sel *app.Selection, key string, converting bool) string {
	if converting {
		switch key {
		case validation.FieldName:
			return sel.Draft.Name
		case fieldStage:
			return sel.Draft.Stage
		case validation.FieldAmount:
			return sel.Draft.Amount
		case validation.FieldAccountName:
			return sel.Draft.AccountName
		}
		return ""
	}
	switch key {
	case validation.FieldEmail:
		return sel.Edit.Email
	case fieldStatus:
		return string(sel.Edit.Status)
	}
	return ""
}

// EDIT AND CONVERSION FORMS
func (m *model) updateForm(msg tea.Msg) tea.Cmd {
	if m.view.Saving || m.view.Converting {
		return nil
	}

	var cmds []tea.Cmd
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.back):
			m.resetMessages()
			return m.dispatch(m.form.cancelIntent())
		case key.Matches(k, m.keys.open):
			return m.submitField()
		}
	}

	var cmd tea.Cmd
	m.form.input, cmd = m.form.input.Update(msg)
	cmds = append(cmds, cmd)
	return batchCmds(cmds)
}

func (m *model) submitField() tea.Cmd {
	value := m.form.input.Value()
	if isBackCommand(value) {
		if m.form.index == 0 {
			m.resetMessages()
			return m.dispatch(m.form.cancelIntent())
		}
		m.form.focusField(m.form.index - 1)
		return nil
	}

	field := m.form.current()
	if field.required && strings.TrimSpace(value) == "" {
		m.errMessage = "This field is required"
		return nil
	}
	m.errMessage = ""
	cmd := m.dispatch(m.form.fieldIntent(value))
	sel := m.view.Selected
	if sel == nil {
		return cmd
	}
	m.form.syncFrom(sel)
	if _, bad := sel.Errors[field.key]; bad {
		m.form.focusField(m.form.index)
		return cmd
	}
	if !m.form.last() {
		m.form.focusField(m.form.index + 1)
		return cmd
	}

	m.resetMessages()
	submit := m.dispatch(m.form.submitIntent())
	if sel = m.view.Selected; sel != nil && !sel.Errors.OK() {
		m.form.focusFirstError(sel.Errors)
	}
	return batchCmds([]tea.Cmd{cmd, submit})
}

func (m *model) viewForm() string {
	sel := m.view.Selected
	title := "Edit Lead"
	hint := "Enter to confirm each field. '/' to go back a step, Esc to discard changes."
	if m.form.converting {
		title = "Convert Lead"
		hint = "Enter to confirm each field. '/' to go back a step, Esc to cancel the conversion."
	}
	lines := m.header(fmt.Sprintf("%s: %s", title, m.view.Lead.Name))
	lines = append(lines, m.theme.Faint.Render(hint))
	lines = append(lines, "")

	for i, field := range m.form.fields {
		label := field.label
		if field.required {
			label += " *"
		}
		if i == m.form.index {
			lines = append(lines, m.theme.Accent.Render("› "+label+":"))
			lines = append(lines, "  "+m.form.input.View())
		} else {
			value := field.value
			if value == "" {
				value = "-"
			}
			lines = append(lines, m.theme.Primary.Render("  "+label+": ")+m.theme.Secondary.Render(value))
		}
		if sel != nil {
			if e, ok := sel.Errors[field.key]; ok {
				lines = append(lines, "  "+m.theme.Danger.Render(e.Message))
			}
		}
	}

	lines = append(lines, "")
	switch {
	case m.view.Saving:
		lines = append(lines, m.spinner.View()+" "+m.theme.Secondary.Render("Saving..."))
	case m.view.Converting:
		lines = append(lines, m.spinner.View()+" "+m.theme.Secondary.Render("Converting..."))
	default:
		lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("%d/%d", m.form.index+1, len(m.form.fields))))
	}
	if sel != nil {
		if e, ok := sel.Errors[validation.FieldGeneral]; ok {
			lines = append(lines, "", m.theme.Danger.Render(e.Message))
		}
	}
	lines = m.banners(lines)
	return strings.Join(lines, "\n") + "\n"
}
