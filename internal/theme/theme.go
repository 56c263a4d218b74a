package theme

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"sellerconsole/internal/leads"
)

// Theme encapsulates the visual palette for the console.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Accent    lipgloss.Style
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Faint     lipgloss.Style
	Highlight lipgloss.Style
	Border    lipgloss.Style
	HelpKey   lipgloss.Style
	HelpValue lipgloss.Style

	statuses map[leads.Status]lipgloss.Style
	stages   map[string]lipgloss.Style
}

// Default returns a high-contrast palette that plays nicely with common terminals.
func Default() Theme {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("210"))
	badge := lipgloss.NewStyle().Bold(true)
	return Theme{
		Title:     lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true).Underline(true),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("219")).Bold(true),
		Primary:   base.Copy().Foreground(lipgloss.Color("81")),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("227")).Bold(true),
		Danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Faint:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Border:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HelpKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true),
		HelpValue: lipgloss.NewStyle().Foreground(lipgloss.Color("249")),

		statuses: map[leads.Status]lipgloss.Style{
			leads.StatusNew:         badge.Copy().Foreground(lipgloss.Color("75")),
			leads.StatusContacted:   badge.Copy().Foreground(lipgloss.Color("227")),
			leads.StatusQualified:   badge.Copy().Foreground(lipgloss.Color("42")),
			leads.StatusUnqualified: badge.Copy().Foreground(lipgloss.Color("203")),
		},
		stages: map[string]lipgloss.Style{
			leads.StageProspecting:   badge.Copy().Foreground(lipgloss.Color("75")),
			leads.StageQualification: badge.Copy().Foreground(lipgloss.Color("111")),
			leads.StageProposal:      badge.Copy().Foreground(lipgloss.Color("227")),
			leads.StageNegotiation:   badge.Copy().Foreground(lipgloss.Color("214")),
			leads.StageClosedWon:     badge.Copy().Foreground(lipgloss.Color("42")),
			leads.StageClosedLost:    badge.Copy().Foreground(lipgloss.Color("203")),
		},
	}
}

// Status renders a lead status badge. Unknown statuses render faint.
func (t Theme) Status(s leads.Status) string {
	if style, ok := t.statuses[s]; ok {
		return style.Render(s.Label())
	}
	return t.Faint.Render(string(s))
}

// Stage renders an opportunity stage badge.
func (t Theme) Stage(stage string) string {
	if style, ok := t.stages[stage]; ok {
		return style.Render(stage)
	}
	return t.Secondary.Render(stage)
}

// Table returns the table styles matching the palette.
func (t Theme) Table() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.Copy().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Foreground(lipgloss.Color("111")).
		Bold(true)
	s.Selected = s.Selected.Copy().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}
