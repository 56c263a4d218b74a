package leads

import "strings"

// Status is the qualification state of a lead.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusUnqualified Status = "unqualified"
)

// Statuses lists every lead status in display order.
var Statuses = []Status{StatusNew, StatusContacted, StatusQualified, StatusUnqualified}

// ParseStatus matches a status case-insensitively.
func ParseStatus(value string) (Status, bool) {
	v := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range Statuses {
		if s == v {
			return s, true
		}
	}
	return "", false
}

// Label returns the capitalised status used in badges.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Lead is a prospective customer record.
type Lead struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Company string  `json:"company"`
	Email   string  `json:"email"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Status  Status  `json:"status"`
}

// Stage vocabulary offered when creating an opportunity. Stored as free text.
const (
	StageProspecting   = "Prospecting"
	StageQualification = "Qualification"
	StageProposal      = "Proposal"
	StageNegotiation   = "Negotiation"
	StageClosedWon     = "Closed Won"
	StageClosedLost    = "Closed Lost"
)

// Stages lists the stage vocabulary in pipeline order.
var Stages = []string{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// KnownStage reports whether stage is part of the stage vocabulary.
func KnownStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Opportunity is a pipeline record created by converting a lead.
type Opportunity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Stage       string   `json:"stage"`
	Amount      *float64 `json:"amount,omitempty"`
	AccountName string   `json:"accountName"`
	CreatedFrom string   `json:"createdFrom,omitempty"`
}

// SortField selects the comparator used by Derive.
type SortField string

const (
	SortByScore   SortField = "score"
	SortByName    SortField = "name"
	SortByCompany SortField = "company"
)

// SortDirection orders the comparator result.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	switch f {
	case SortByScore, SortByName, SortByCompany:
		return true
	}
	return false
}

// Valid reports whether d is a known direction.
func (d SortDirection) Valid() bool {
	return d == Ascending || d == Descending
}

// FilterState is the user-chosen search, status filter and sort configuration.
type FilterState struct {
	Search        string        `json:"search"`
	Status        string        `json:"status"`
	SortField     SortField     `json:"sortField"`
	SortDirection SortDirection `json:"sortDirection"`
}

// PaginationState is the user-chosen page size and current page.
type PaginationState struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// PageSizes are the page sizes offered to the user.
var PageSizes = []int{5, 10, 15, 20}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, size := range PageSizes {
		if size == n {
			return true
		}
	}
	return false
}

// DefaultFilters returns the filter state used when nothing is persisted.
func DefaultFilters() FilterState {
	return FilterState{SortField: SortByScore, SortDirection: Descending}
}

// DefaultPagination returns the pagination state used when nothing is persisted.
func DefaultPagination() PaginationState {
	return PaginationState{CurrentPage: 1, ItemsPerPage: 20}
}

// Valid reports whether every enumerated field holds a known value.
func (f FilterState) Valid() bool {
	if !f.SortField.Valid() || !f.SortDirection.Valid() {
		return false
	}
	if f.Status == "" {
		return true
	}
	s, ok := ParseStatus(f.Status)
	return ok && string(s) == f.Status
}

// Valid reports whether the page is positive and the size is offered.
func (p PaginationState) Valid() bool {
	return p.CurrentPage >= 1 && ValidPageSize(p.ItemsPerPage)
}
