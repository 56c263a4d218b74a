package leads

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLeads() []Lead {
	return []Lead{
		{ID: "1", Name: "Ana Souza", Company: "Globex", Email: "ana@globex.com", Source: "web", Score: 72, Status: StatusNew},
		{ID: "2", Name: "bruno lima", Company: "Initech", Email: "bruno@initech.com", Source: "referral", Score: 91, Status: StatusContacted},
		{ID: "3", Name: "Carla Dias", Company: "acme corp", Email: "carla@acme.com", Source: "event", Score: 55, Status: StatusQualified},
		{ID: "4", Name: "Diego Alves", Company: "Umbrella", Email: "diego@umbrella.com", Source: "web", Score: 91, Status: StatusUnqualified},
		{ID: "5", Name: "Elisa Rocha", Company: "Acme Labs", Email: "elisa@acmelabs.com", Source: "cold call", Score: 38, Status: StatusNew},
	}
}

func generateLeads(n int) []Lead {
	out := make([]Lead, n)
	for i := range out {
		out[i] = Lead{
			ID:      fmt.Sprintf("lead-%d", i+1),
			Name:    fmt.Sprintf("Lead %02d", i+1),
			Company: fmt.Sprintf("Company %02d", i+1),
			Score:   float64(i),
			Status:  Statuses[i%len(Statuses)],
		}
	}
	return out
}

func ids(list []Lead) []string {
	out := make([]string, len(list))
	for i, l := range list {
		out[i] = l.ID
	}
	return out
}

func TestDeriveEmptyFiltersReturnsEverything(t *testing.T) {
	all := sampleLeads()
	res := Derive(all, FilterState{SortField: SortByScore, SortDirection: Descending}, PaginationState{CurrentPage: 1, ItemsPerPage: 20})

	assert.Equal(t, len(all), res.TotalFiltered)
	assert.Equal(t, 1, res.TotalPages)
	assert.ElementsMatch(t, ids(all), ids(res.Page))
	for i := 1; i < len(res.Page); i++ {
		assert.GreaterOrEqual(t, res.Page[i-1].Score, res.Page[i].Score)
	}
}

func TestDeriveSearchMatchesNameOrCompanyCaseInsensitive(t *testing.T) {
	all := sampleLeads()
	filters := DefaultFilters()

	filters.Search = "ACME"
	res := Derive(all, filters, DefaultPagination())
	assert.ElementsMatch(t, []string{"3", "5"}, ids(res.Page))

	filters.Search = "Bruno"
	res = Derive(all, filters, DefaultPagination())
	assert.Equal(t, []string{"2"}, ids(res.Page))

	filters.Search = "nobody"
	res = Derive(all, filters, DefaultPagination())
	assert.Empty(t, res.Page)
	assert.Equal(t, 0, res.TotalPages)
}

func TestDeriveStatusPartition(t *testing.T) {
	all := generateLeads(23)
	total := 0
	for _, status := range Statuses {
		filters := DefaultFilters()
		filters.Status = string(status)
		res := Derive(all, filters, PaginationState{CurrentPage: 1, ItemsPerPage: 20})
		for _, l := range Filter(all, filters) {
			assert.Equal(t, status, l.Status)
		}
		total += res.TotalFiltered
	}
	assert.Equal(t, len(all), total)
}

func TestDeriveIsIdempotentAndDoesNotMutate(t *testing.T) {
	all := sampleLeads()
	before := append([]Lead(nil), all...)
	filters := FilterState{Search: "a", SortField: SortByName, SortDirection: Ascending}
	pagination := PaginationState{CurrentPage: 1, ItemsPerPage: 2}

	first := Derive(all, filters, pagination)
	second := Derive(all, filters, pagination)

	assert.Equal(t, first, second)
	assert.Equal(t, before, all)
}

func TestDeriveScoreAscendingReversedEqualsDescending(t *testing.T) {
	all := generateLeads(12)
	page := PaginationState{CurrentPage: 1, ItemsPerPage: 20}

	asc := Derive(all, FilterState{SortField: SortByScore, SortDirection: Ascending}, page).Page
	desc := Derive(all, FilterState{SortField: SortByScore, SortDirection: Descending}, page).Page

	require.Len(t, asc, len(desc))
	for i := range asc {
		assert.Equal(t, asc[i].Score, desc[len(desc)-1-i].Score)
	}
}

func TestDeriveSortsNamesAndCompaniesCaseInsensitive(t *testing.T) {
	all := sampleLeads()
	page := DefaultPagination()

	byName := Derive(all, FilterState{SortField: SortByName, SortDirection: Ascending}, page).Page
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(byName))

	byCompany := Derive(all, FilterState{SortField: SortByCompany, SortDirection: Descending}, page).Page
	assert.Equal(t, []string{"4", "2", "1", "5", "3"}, ids(byCompany))
}

func TestDerivePagination(t *testing.T) {
	all := generateLeads(47)
	filters := FilterState{SortField: SortByScore, SortDirection: Ascending}

	cases := []struct {
		page     int
		wantLen  int
		wantHead string
	}{
		{page: 1, wantLen: 20, wantHead: "lead-1"},
		{page: 2, wantLen: 20, wantHead: "lead-21"},
		{page: 3, wantLen: 7, wantHead: "lead-41"},
		{page: 4, wantLen: 0},
		{page: 0, wantLen: 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			res := Derive(all, filters, PaginationState{CurrentPage: tc.page, ItemsPerPage: 20})
			assert.Equal(t, 47, res.TotalFiltered)
			assert.Equal(t, 3, res.TotalPages)
			require.Len(t, res.Page, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, tc.wantHead, res.Page[0].ID)
			}
		})
	}
}

func TestDeriveEmptyInput(t *testing.T) {
	res := Derive(nil, DefaultFilters(), DefaultPagination())
	assert.Empty(t, res.Page)
	assert.Equal(t, 0, res.TotalFiltered)
	assert.Equal(t, 0, res.TotalPages)

	res = Derive(sampleLeads(), DefaultFilters(), PaginationState{CurrentPage: 1})
	assert.Empty(t, res.Page)
	assert.Equal(t, 0, res.TotalPages)
}

func TestPageWindow(t *testing.T) {
	assert.Nil(t, PageWindow(1, 0))
	assert.Equal(t, []int{1}, PageWindow(1, 1))
	assert.Equal(t, []int{1, 2, 3}, PageWindow(1, 3))
	assert.Equal(t, []int{1, 2, 3, 0, 10}, PageWindow(1, 10))
	assert.Equal(t, []int{1, 0, 3, 4, 5, 6, 7, 0, 10}, PageWindow(5, 10))
	assert.Equal(t, []int{1, 0, 8, 9, 10}, PageWindow(10, 10))
}

func TestRangeInfo(t *testing.T) {
	first, last := RangeInfo(PaginationState{CurrentPage: 3, ItemsPerPage: 20}, 47)
	assert.Equal(t, 41, first)
	assert.Equal(t, 47, last)

	first, last = RangeInfo(PaginationState{CurrentPage: 4, ItemsPerPage: 20}, 47)
	assert.Zero(t, first)
	assert.Zero(t, last)
}
