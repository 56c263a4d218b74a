package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sellerconsole/internal/app"
	"sellerconsole/internal/config"
	"sellerconsole/internal/leads"
	"sellerconsole/internal/theme"
)

// Program wraps the Bubble Tea program lifecycle.
type Program struct {
	program *tea.Program
}

// NewProgram constructs an interactive console session over ctrl.
func NewProgram(ctx context.Context, ctrl *app.Controller, cfg *config.Store, log *zap.Logger) *Program {
	m := newModel(ctx, ctrl, cfg, log)
	return &Program{program: tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))}
}

// Start runs the program until the user quits or ctx is cancelled.
func (p *Program) Start() error {
	if p == nil || p.program == nil {
		return fmt.Errorf("nil program")
	}
	_, err := p.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

type viewState int

const (
	stateLeads viewState = iota
	stateLeadDetail
	stateEditLead
	stateConvertLead
	stateOpportunities
)

const (
	promptLeads  = "find <text>, status <s|all>, sort <field> [dir], n/p, size <n>, # to open, o, q"
	promptDetail = "1=Edit  2=Convert  3=Back"
	promptOpps   = "/ or b to go back, q to quit"
)

// intentMsg carries the result of a controller task back into Update.
type intentMsg struct {
	intent app.Intent
}

type keyMap struct {
	nextPage key.Binding
	prevPage key.Binding
	up       key.Binding
	down     key.Binding
	open     key.Binding
	back     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		nextPage: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "next page"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "prev page"),
		),
		up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run / open row"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.prevPage, k.nextPage, k.up, k.down, k.open, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type model struct {
	ctx        context.Context
	ctrl       *app.Controller
	cfg        *config.Store
	log        *zap.Logger
	theme      theme.Theme
	keys       keyMap
	help       help.Model
	state      viewState
	prevStates []viewState
	width      int
	height     int

	infoMessage string
	errMessage  string

	view      app.View
	menuInput textinput.Model
	spinner   spinner.Model
	leadTable table.Model
	oppTable  table.Model
	form      leadForm
}

func newModel(ctx context.Context, ctrl *app.Controller, cfg *config.Store, log *zap.Logger) *model {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	th := theme.Default()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = th.Accent.Copy()

	m := model{
		ctx:     ctx,
		ctrl:    ctrl,
		cfg:     cfg,
		log:     log,
		theme:   th,
		keys:    newKeyMap(),
		help:    help.New(),
		state:   stateLeads,
		spinner: sp,
		leadTable: table.New(
			table.WithColumns(leadColumns),
			table.WithFocused(true),
			table.WithHeight(leads.DefaultPagination().ItemsPerPage),
			table.WithStyles(th.Table()),
		),
		oppTable: table.New(
			table.WithColumns(oppColumns),
			table.WithFocused(true),
			table.WithHeight(10),
			table.WithStyles(th.Table()),
		),
	}
	m.help.Styles.ShortKey = th.HelpKey.Copy()
	m.help.Styles.ShortDesc = th.HelpValue.Copy()
	m.setMenuInput(promptLeads, 96)
	m.refresh()
	return &m
}

func (m *model) Init() tea.Cmd {
	return batchCmds([]tea.Cmd{textinput.Blink, m.dispatch(app.LoadLeads{})})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case intentMsg:
		return m, m.dispatch(msg.intent)
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.state {
	case stateLeads:
		cmd = m.updateLeads(msg)
	case stateLeadDetail:
		cmd = m.updateLeadDetail(msg)
	case stateEditLead, stateConvertLead:
		cmd = m.updateForm(msg)
	case stateOpportunities:
		cmd = m.updateOpportunities(msg)
	default:
		m.state = stateLeads
		cmd = m.updateLeads(msg)
	}
	return m, cmd
}

func (m *model) View() string {
	switch m.state {
	case stateLeads:
		return m.viewLeads()
	case stateLeadDetail:
		return m.viewLeadDetail()
	case stateEditLead, stateConvertLead:
		return m.viewForm()
	case stateOpportunities:
		return m.viewOpportunities()
	default:
		return ""
	}
}

// dispatch hands an intent to the controller and turns the returned task
// into a command whose result is dispatched in turn.
func (m *model) dispatch(in app.Intent) tea.Cmd {
	task := m.ctrl.Dispatch(in)
	m.refresh()
	if task == nil {
		return nil
	}
	ctx := m.ctx
	run := func() tea.Msg {
		return intentMsg{intent: task(ctx)}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *model) busy() bool {
	return m.view.Phase == app.PhaseLoading || m.view.Saving || m.view.Converting
}

// refresh snapshots the controller and moves the screen to match the selection.
func (m *model) refresh() {
	m.view = m.ctrl.View()
	m.infoMessage = m.view.Notice

	rows := leadRows(m.view.Result.Page)
	if m.leadTable.Cursor() >= len(rows) {
		m.leadTable.SetCursor(0)
	}
	m.leadTable.SetRows(rows)
	opps := oppRows(m.view.Opportunities)
	if m.oppTable.Cursor() >= len(opps) {
		m.oppTable.SetCursor(0)
	}
	m.oppTable.SetRows(opps)

	sel := m.view.Selected
	next := m.state
	switch {
	case sel == nil:
		if m.state != stateOpportunities {
			next = stateLeads
		}
	case sel.Mode == app.ModeEditing:
		next = stateEditLead
	case sel.Mode == app.ModeConverting:
		next = stateConvertLead
	default:
		next = stateLeadDetail
	}
	if next == m.state {
		return
	}
	m.state = next
	switch next {
	case stateLeads:
		m.prevStates = nil
		m.setMenuInput(promptLeads, 96)
	case stateLeadDetail:
		m.setMenuInput(promptDetail, 32)
	case stateEditLead:
		m.form = newEditForm(sel.Edit)
	case stateConvertLead:
		m.form = newConvertForm(sel.Draft)
	}
}

func (m *model) resize() {
	m.help.Width = m.width
	// title, filters, banners, pager, help and prompt
	rows := m.height - 12
	if rows < 5 {
		rows = 5
	}
	if rows > leads.PageSizes[len(leads.PageSizes)-1] {
		rows = leads.PageSizes[len(leads.PageSizes)-1]
	}
	m.leadTable.SetHeight(rows)
	m.oppTable.SetHeight(rows)
}

// Navigation helpers
func (m *model) pushState(next viewState) {
	m.prevStates = append(m.prevStates, m.state)
	m.state = next
}

func (m *model) popState() {
	if len(m.prevStates) == 0 {
		m.state = stateLeads
		return
	}
	idx := len(m.prevStates) - 1
	m.state = m.prevStates[idx]
	m.prevStates = m.prevStates[:idx]
}

func (m *model) resetMessages() {
	m.errMessage = ""
	m.infoMessage = ""
}

func (m *model) setMenuInput(placeholder string, limit int) tea.Cmd {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	if limit > 0 {
		input.CharLimit = limit
	}
	cmd := input.Focus()
	m.menuInput = input
	return cmd
}

func batchCmds(cmds []tea.Cmd) tea.Cmd {
	filtered := cmds[:0]
	for _, c := range cmds {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return tea.Batch(filtered...)
	}
}

func isBackCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "/" || v == "back" || v == "b"
}

func isExitCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "exit." || v == "quit" || v == "q"
}

func (m *model) header(title string) []string {
	lines := []string{m.theme.Title.Render(title)}
	sub := "Seller Console"
	if m.cfg != nil {
		now := time.Now().In(m.cfg.Location()).Format("Mon Jan 02 15:04")
		sub = fmt.Sprintf("Seller Console · %s · %s", m.cfg.Config.Name, now)
	}
	lines = append(lines, m.theme.Secondary.Render(sub))
	return lines
}

func (m *model) banners(lines []string) []string {
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	return lines
}
