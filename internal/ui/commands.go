package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sellerconsole/internal/app"
	"sellerconsole/internal/leads"
)

// screen actions a leads command can request besides an intent
const (
	actionQuit          = "quit"
	actionOpportunities = "opportunities"
)

var errUnknownCommand = errors.New("Unknown command")

type leadsCommand struct {
	intent app.Intent
	action string
}

type menuOption struct {
	id       string
	keywords []string
	synonyms []string
}

const (
	detailEdit    = "edit"
	detailConvert = "convert"
	detailBack    = "back"
)

var detailOptions = []menuOption{
	{
		id:       detailEdit,
		keywords: []string{"edit", "update"},
		synonyms: []string{"1", "e", "edit", "edit lead"},
	},
	{
		id:       detailConvert,
		keywords: []string{"convert", "opportunity"},
		synonyms: []string{"2", "c", "convert", "convert lead"},
	},
	{
		id:       detailBack,
		keywords: []string{"back", "close"},
		synonyms: []string{"3", "b", "back", "close", "/"},
	},
}

func resolveOption(options []menuOption, input string) (string, bool) {
	value := strings.TrimSpace(strings.ToLower(input))
	if value == "" {
		return "", false
	}
	// direct matches first
	for _, option := range options {
		for _, syn := range option.synonyms {
			if value == syn {
				return option.id, true
			}
		}
	}

	matches := make(map[string]struct{})
	for _, option := range options {
		for _, keyword := range option.keywords {
			if strings.HasPrefix(keyword, value) {
				matches[option.id] = struct{}{}
				break
			}
		}
	}
	if len(matches) == 1 {
		for id := range matches {
			return id, true
		}
	}
	return "", false
}

// parseLeadsCommand turns the leads screen prompt into an intent or a screen
// action. page is the currently displayed page, used for row numbers.
func parseLeadsCommand(input string, page []leads.Lead) (leadsCommand, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return leadsCommand{}, nil
	}
	if strings.HasPrefix(trimmed, "/") {
		return leadsCommand{intent: app.Search(strings.TrimSpace(trimmed[1:]))}, nil
	}

	fields := strings.Fields(trimmed)
	verb := strings.ToLower(fields[0])
	rest := strings.TrimSpace(trimmed[len(fields[0]):])
	args := fields[1:]

	switch verb {
	case "q", "quit", "exit", "exit.":
		return leadsCommand{action: actionQuit}, nil
	case "o", "opps", "opportunities":
		return leadsCommand{action: actionOpportunities}, nil
	case "n", "next":
		return leadsCommand{intent: app.NextPage{}}, nil
	case "p", "prev", "previous":
		return leadsCommand{intent: app.PrevPage{}}, nil
	case "find", "search":
		return leadsCommand{intent: app.Search(rest)}, nil
	case "clear":
		return leadsCommand{intent: app.ChangeFilter{Patch: clearPatch()}}, nil
	case "status":
		if len(args) != 1 {
			return leadsCommand{}, fmt.Errorf("Usage: status <%s|all>", joinStatuses())
		}
		value := strings.ToLower(args[0])
		if value == "all" || value == "any" {
			return leadsCommand{intent: app.FilterStatus("")}, nil
		}
		s, ok := leads.ParseStatus(value)
		if !ok {
			return leadsCommand{}, fmt.Errorf("Unknown status %q", args[0])
		}
		return leadsCommand{intent: app.FilterStatus(string(s))}, nil
	case "sort":
		return parseSort(args)
	case "page", "go":
		if len(args) != 1 {
			return leadsCommand{}, errors.New("Usage: page <number>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return leadsCommand{}, fmt.Errorf("Invalid page %q", args[0])
		}
		return leadsCommand{intent: app.ChangePage{Page: n}}, nil
	case "size", "per":
		if len(args) != 1 {
			return leadsCommand{}, fmt.Errorf("Usage: size <%s>", joinSizes())
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || !leads.ValidPageSize(n) {
			return leadsCommand{}, fmt.Errorf("Page size must be one of %s", joinSizes())
		}
		return leadsCommand{intent: app.ChangePageSize{Size: n}}, nil
	case "open", "view", "#":
		return openRow(strings.TrimPrefix(rest, "#"), page)
	}

	if strings.HasPrefix(verb, "#") {
		return openRow(verb[1:], page)
	}
	if _, err := strconv.Atoi(verb); err == nil && len(args) == 0 {
		return openRow(verb, page)
	}
	return leadsCommand{}, errUnknownCommand
}

func parseSort(args []string) (leadsCommand, error) {
	if len(args) == 0 || len(args) > 2 {
		return leadsCommand{}, errors.New("Usage: sort <score|name|company> [asc|desc]")
	}
	field := leads.SortField(strings.ToLower(args[0]))
	if !field.Valid() {
		return leadsCommand{}, fmt.Errorf("Cannot sort by %q", args[0])
	}
	dir := leads.Ascending
	if field == leads.SortByScore {
		dir = leads.Descending
	}
	if len(args) == 2 {
		dir = leads.SortDirection(strings.ToLower(args[1]))
		if !dir.Valid() {
			return leadsCommand{}, fmt.Errorf("Unknown direction %q", args[1])
		}
	}
	return leadsCommand{intent: app.SortBy(field, dir)}, nil
}

func openRow(value string, page []leads.Lead) (leadsCommand, error) {
	value = strings.TrimSpace(value)
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 1 || idx > len(page) {
		return leadsCommand{}, fmt.Errorf("No row %s on this page", value)
	}
	return leadsCommand{intent: app.SelectLead{ID: page[idx-1].ID}}, nil
}

func clearPatch() app.FilterPatch {
	empty := ""
	return app.FilterPatch{Search: &empty, Status: &empty}
}

func joinStatuses() string {
	parts := make([]string, len(leads.Statuses))
	for i, s := range leads.Statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, "|")
}

func joinSizes() string {
	parts := make([]string, len(leads.PageSizes))
	for i, n := range leads.PageSizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "|")
}

// resolveStage normalises a typed stage to the known vocabulary; anything
// else is kept as typed.
func resolveStage(input string) string {
	value := strings.TrimSpace(input)
	for _, s := range leads.Stages {
		if strings.EqualFold(s, value) {
			return s
		}
	}
	return value
}

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// formatAmount renders an amount as US currency, or "-" when unset.
func formatAmount(amount *float64) string {
	if amount == nil {
		return "-"
	}
	v := *amount
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	text := amountPrinter.Sprintf("%.2f", v)
	if text == "0.00" {
		sign = ""
	}
	return sign + "$" + text
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
