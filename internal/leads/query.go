package leads

import (
	"sort"
	"strings"
)

// Result is the derived view of the lead collection.
type Result struct {
	Page          []Lead
	TotalFiltered int
	TotalPages    int
}

// Derive filters, sorts and paginates leads. It never mutates its inputs and
// does not clamp pagination.CurrentPage; an out-of-range page yields an empty Page.
func Derive(all []Lead, filters FilterState, pagination PaginationState) Result {
	filtered := Filter(all, filters)
	Sort(filtered, filters.SortField, filters.SortDirection)

	res := Result{TotalFiltered: len(filtered), Page: []Lead{}}
	size := pagination.ItemsPerPage
	if size <= 0 {
		return res
	}
	res.TotalPages = (len(filtered) + size - 1) / size

	start := (pagination.CurrentPage - 1) * size
	if start < 0 || start >= len(filtered) {
		return res
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Page = filtered[start:end]
	return res
}

// Filter returns a new slice with the leads matching the search text and status.
func Filter(all []Lead, filters FilterState) []Lead {
	search := strings.ToLower(filters.Search)
	out := make([]Lead, 0, len(all))
	for _, l := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Name), search) &&
			!strings.Contains(strings.ToLower(l.Company), search) {
			continue
		}
		if filters.Status != "" && string(l.Status) != filters.Status {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Sort orders leads in place. Equal keys keep their relative order.
// Unknown fields leave the slice untouched.
func Sort(list []Lead, field SortField, dir SortDirection) {
	var cmp func(a, b Lead) int
	switch field {
	case SortByScore:
		cmp = func(a, b Lead) int {
			switch {
			case a.Score < b.Score:
				return -1
			case a.Score > b.Score:
				return 1
			}
			return 0
		}
	case SortByName:
		cmp = func(a, b Lead) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortByCompany:
		cmp = func(a, b Lead) int {
			return strings.Compare(strings.ToLower(a.Company), strings.ToLower(b.Company))
		}
	default:
		return
	}
	desc := dir == Descending
	sort.SliceStable(list, func(i, j int) bool {
		c := cmp(list[i], list[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// PageWindow lists the page numbers to show around current: the first and
// last page always, up to two neighbours on each side, and 0 for a gap.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	const delta = 2
	pages := []int{1}
	if current-delta > 2 {
		pages = append(pages, 0)
	}
	lo, hi := current-delta, current+delta
	if lo < 2 {
		lo = 2
	}
	if hi > total-1 {
		hi = total - 1
	}
	for i := lo; i <= hi; i++ {
		pages = append(pages, i)
	}
	if current+delta < total-1 {
		pages = append(pages, 0)
	}
	if total > 1 {
		pages = append(pages, total)
	}
	return pages
}

// RangeInfo returns the 1-based positions of the first and last item on the
// current page. Both are 0 when the page is empty.
func RangeInfo(p PaginationState, total int) (first, last int) {
	if total <= 0 || p.ItemsPerPage <= 0 || p.CurrentPage < 1 {
		return 0, 0
	}
	first = (p.CurrentPage-1)*p.ItemsPerPage + 1
	if first > total {
		return 0, 0
	}
	last = p.CurrentPage * p.ItemsPerPage
	if last > total {
		last = total
	}
	return first, last
}
