package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"sellerconsole/internal/app"
	"sellerconsole/internal/leads"
	"sellerconsole/internal/validation"
)

var leadColumns = []table.Column{
	{Title: "#", Width: 3},
	{Title: "Name", Width: 22},
	{Title: "Company", Width: 22},
	{Title: "Email", Width: 30},
	{Title: "Source", Width: 12},
	{Title: "Score", Width: 6},
	{Title: "Status", Width: 12},
}

var oppColumns = []table.Column{
	{Title: "Name", Width: 34},
	{Title: "Stage", Width: 14},
	{Title: "Amount", Width: 16},
	{Title: "Account", Width: 22},
	{Title: "Lead", Width: 8},
}

func leadRows(page []leads.Lead) []table.Row {
	rows := make([]table.Row, len(page))
	for i, l := range page {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			truncate(l.Name, leadColumns[1].Width),
			truncate(l.Company, leadColumns[2].Width),
			truncate(l.Email, leadColumns[3].Width),
			truncate(l.Source, leadColumns[4].Width),
			formatScore(l.Score),
			l.Status.Label(),
		}
	}
	return rows
}

func oppRows(opps []leads.Opportunity) []table.Row {
	rows := make([]table.Row, len(opps))
	for i, o := range opps {
		rows[i] = table.Row{
			truncate(o.Name, oppColumns[0].Width),
			o.Stage,
			formatAmount(o.Amount),
			truncate(o.AccountName, oppColumns[3].Width),
			o.CreatedFrom,
		}
	}
	return rows
}

// LEADS LIST
func (m *model) updateLeads(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.nextPage):
			m.resetMessages()
			return m.dispatch(app.NextPage{})
		case key.Matches(k, m.keys.prevPage):
			m.resetMessages()
			return m.dispatch(app.PrevPage{})
		case key.Matches(k, m.keys.up, m.keys.down):
			var cmd tea.Cmd
			m.leadTable, cmd = m.leadTable.Update(msg)
			return cmd
		case key.Matches(k, m.keys.back):
			m.menuInput.SetValue("")
			m.resetMessages()
			return nil
		case key.Matches(k, m.keys.open):
			value := m.menuInput.Value()
			m.menuInput.SetValue("")
			m.errMessage = ""
			if strings.TrimSpace(value) == "" {
				return m.openHighlighted()
			}
			return m.runLeadsCommand(value)
		}
	}

	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	cmds = append(cmds, cmd)
	return batchCmds(cmds)
}

func (m *model) openHighlighted() tea.Cmd {
	page := m.view.Result.Page
	idx := m.leadTable.Cursor()
	if m.view.Phase != app.PhaseReady || idx < 0 || idx >= len(page) {
		return nil
	}
	return m.dispatch(app.SelectLead{ID: page[idx].ID})
}

func (m *model) runLeadsCommand(value string) tea.Cmd {
	command, err := parseLeadsCommand(value, m.view.Result.Page)
	if err != nil {
		m.errMessage = err.Error()
		return nil
	}
	switch command.action {
	case actionQuit:
		return tea.Quit
	case actionOpportunities:
		m.resetMessages()
		m.pushState(stateOpportunities)
		return m.setMenuInput(promptOpps, 32)
	}
	if command.intent == nil {
		return nil
	}
	if m.view.Phase != app.PhaseReady {
		m.errMessage = "Leads are not loaded yet"
		return nil
	}
	return m.dispatch(command.intent)
}

func (m *model) viewLeads() string {
	lines := m.header("Leads")
	lines = m.banners(lines)
	lines = append(lines, "")

	switch m.view.Phase {
	case app.PhaseIdle, app.PhaseLoading:
		lines = append(lines, m.spinner.View()+" "+m.theme.Secondary.Render("Loading leads..."))
	case app.PhaseFailed:
		lines = append(lines, m.theme.Danger.Render(m.view.LoadError))
		lines = append(lines, m.theme.Faint.Render("Restart the console to load leads again. Type 'q' to quit."))
	default:
		lines = append(lines, m.filterSummary())
		lines = append(lines, "")
		if len(m.view.Result.Page) == 0 {
			if m.view.Total == 0 {
				lines = append(lines, m.theme.Warning.Render("No leads available."))
			} else {
				lines = append(lines, m.theme.Warning.Render("No leads match the current filters."))
			}
		} else {
			lines = append(lines, m.leadTable.View())
		}
		lines = append(lines, "")
		lines = append(lines, m.pager())
	}

	lines = append(lines, m.theme.Border.Render(strings.Repeat("─", 40)))
	lines = append(lines, m.help.View(m.keys))
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}

func (m *model) filterSummary() string {
	f := m.view.Filters
	search := "-"
	if f.Search != "" {
		search = strconv.Quote(f.Search)
	}
	status := "all"
	if f.Status != "" {
		status = leads.Status(f.Status).Label()
	}
	parts := []string{
		m.theme.HelpKey.Render("Search ") + m.theme.HelpValue.Render(search),
		m.theme.HelpKey.Render("Status ") + m.theme.HelpValue.Render(status),
		m.theme.HelpKey.Render("Sort ") + m.theme.HelpValue.Render(fmt.Sprintf("%s %s", f.SortField, f.SortDirection)),
		m.theme.HelpKey.Render("Per page ") + m.theme.HelpValue.Render(strconv.Itoa(m.view.Pagination.ItemsPerPage)),
	}
	return strings.Join(parts, "  •  ")
}

func (m *model) pager() string {
	v := m.view
	if v.Result.TotalFiltered == 0 {
		return m.theme.Faint.Render("Showing 0 of 0")
	}
	items := make([]string, 0, len(v.Window)+2)
	items = append(items, m.theme.Faint.Render("«"))
	for _, n := range v.Window {
		switch {
		case n == 0:
			items = append(items, m.theme.Faint.Render("…"))
		case n == v.Pagination.CurrentPage:
			items = append(items, m.theme.Highlight.Render(fmt.Sprintf("[%d]", n)))
		default:
			items = append(items, m.theme.Secondary.Render(strconv.Itoa(n)))
		}
	}
	items = append(items, m.theme.Faint.Render("»"))

	info := fmt.Sprintf("Showing %d-%d of %d", v.First, v.Last, v.Result.TotalFiltered)
	if v.Result.TotalFiltered != v.Total {
		info += fmt.Sprintf(" (filtered from %d)", v.Total)
	}
	return strings.Join(items, " ") + "   " + m.theme.Faint.Render(info)
}

// LEAD DETAIL
func (m *model) updateLeadDetail(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	cmds = append(cmds, cmd)

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.open):
			choice := m.menuInput.Value()
			m.menuInput.SetValue("")
			action, ok := resolveOption(detailOptions, choice)
			if !ok {
				if strings.TrimSpace(choice) != "" {
					m.errMessage = "Unknown choice"
				}
				return batchCmds(cmds)
			}
			m.resetMessages()
			switch action {
			case detailEdit:
				cmds = append(cmds, m.dispatch(app.BeginEdit{}), m.form.input.Focus())
			case detailConvert:
				cmds = append(cmds, m.dispatch(app.BeginConversion{}), m.form.input.Focus())
			case detailBack:
				cmds = append(cmds, m.dispatch(app.CloseDetail{}))
			}
		case key.Matches(k, m.keys.back):
			m.resetMessages()
			cmds = append(cmds, m.dispatch(app.CloseDetail{}))
		}
	}
	return batchCmds(cmds)
}

func (m *model) viewLeadDetail() string {
	l := m.view.Lead
	lines := m.header(l.Name)
	lines = append(lines, m.theme.Secondary.Render(l.Company)+"  "+m.theme.Status(l.Status))
	lines = append(lines, "")
	lines = append(lines, m.detailRow("Email", l.Email))
	lines = append(lines, m.detailRow("Source", l.Source))
	lines = append(lines, m.detailRow("Score", formatScore(l.Score)))
	lines = append(lines, m.detailRow("Lead ID", l.ID))
	lines = append(lines, "")

	lines = append(lines, m.theme.Subtitle.Render("Actions"))
	lines = append(lines, m.theme.Secondary.Render("1. Edit lead"))
	lines = append(lines, m.theme.Secondary.Render("2. Convert to opportunity"))
	lines = append(lines, m.theme.Faint.Render("3. Back"))
	lines = append(lines, "")
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	lines = m.banners(lines)
	if sel := m.view.Selected; sel != nil {
		if e, ok := sel.Errors[validation.FieldGeneral]; ok {
			lines = append(lines, "", m.theme.Danger.Render(e.Message))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *model) detailRow(label, value string) string {
	if value == "" {
		value = "-"
	}
	return m.theme.Primary.Render(fmt.Sprintf("%-8s", label)) + " " + m.theme.Secondary.Render(value)
}

// OPPORTUNITIES
func (m *model) updateOpportunities(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.up, m.keys.down):
			var cmd tea.Cmd
			m.oppTable, cmd = m.oppTable.Update(msg)
			return cmd
		case key.Matches(k, m.keys.back):
			return m.leaveOpportunities()
		case key.Matches(k, m.keys.open):
			value := m.menuInput.Value()
			m.menuInput.SetValue("")
			switch {
			case isExitCommand(value):
				return tea.Quit
			case isBackCommand(value):
				return m.leaveOpportunities()
			case strings.TrimSpace(value) != "":
				m.errMessage = "Unknown choice"
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	cmds = append(cmds, cmd)
	return batchCmds(cmds)
}

func (m *model) leaveOpportunities() tea.Cmd {
	m.resetMessages()
	m.popState()
	return m.setMenuInput(promptLeads, 96)
}

func (m *model) viewOpportunities() string {
	lines := m.header("Opportunities")
	lines = m.banners(lines)
	lines = append(lines, "")
	if len(m.view.Opportunities) == 0 {
		lines = append(lines, m.theme.Warning.Render("No opportunities yet. Convert a lead to create one."))
	} else {
		lines = append(lines, m.oppTable.View())
		lines = append(lines, "")
		lines = append(lines, m.stageSummary())
		lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("%d opportunit%s", len(m.view.Opportunities), plural(len(m.view.Opportunities), "y", "ies"))))
	}
	lines = append(lines, m.theme.Border.Render(strings.Repeat("─", 40)))
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}

// stageSummary counts opportunities per stage as coloured badges, known
// stages first.
func (m *model) stageSummary() string {
	counts := make(map[string]int)
	order := append([]string{}, leads.Stages...)
	for _, o := range m.view.Opportunities {
		if counts[o.Stage] == 0 && !leads.KnownStage(o.Stage) {
			order = append(order, o.Stage)
		}
		counts[o.Stage]++
	}
	var parts []string
	for _, stage := range order {
		if n := counts[stage]; n > 0 {
			parts = append(parts, m.theme.Stage(stage)+" "+m.theme.HelpValue.Render(strconv.Itoa(n)))
		}
	}
	return strings.Join(parts, "  ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
