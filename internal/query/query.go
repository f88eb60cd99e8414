// Package query implements the filter/search/pagination surface over an
// extracted record set. State is caller-owned: it is passed in and handed
// back, possibly adjusted (a type filter that became invalid resets to the
// "all" sentinel with a notice, never an error).
package query

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"SanctionsExplorer/internal/domain"
)

// AllTypes disables the type filter.
const AllTypes = "all"

// Searches shorter than this are advisory-only and do not filter.
const minSearchLength = 3

// State carries the active filters. A zero State filters nothing.
type State struct {
	Countries []string
	Type      string
	Search    string
	Page      int
	PageSize  int
}

// NoticeKind labels soft conditions raised while applying filters.
type NoticeKind string

const (
	NoticeSearchTooShort NoticeKind = "search_too_short"
	NoticeTypeReset      NoticeKind = "type_reset"
)

// Notice is a soft condition for the caller; the query still succeeds.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Result is one filtered, paginated view of the record set.
type Result struct {
	Records    []domain.SanctionRecord
	Filtered   []domain.SanctionRecord
	Total      int
	Page       int
	PageCount  int
	TypeCounts map[string]int
	Notices    []Notice
}

// Apply runs the conjunctive filter chain (country AND type AND search) over
// records, then paginates. The returned State reflects any type-filter reset.
func Apply(records []domain.SanctionRecord, st State) (State, Result) {
	var notices []Notice

	if st.Type == "" {
		st.Type = AllTypes
	}

	filtered := filterCountries(records, st.Countries)

	// Selectable types are always relative to the country-filtered subset.
	if st.Type != AllTypes && !contains(TypeOptions(filtered), st.Type) {
		notices = append(notices, Notice{
			Kind:    NoticeTypeReset,
			Message: fmt.Sprintf("no %q entries under the selected countries; type filter reset", st.Type),
		})
		st.Type = AllTypes
	}

	if st.Type != AllTypes {
		filtered = filterType(filtered, st.Type)
	}

	if n := utf8.RuneCountInString(st.Search); n >= minSearchLength {
		filtered = filterName(filtered, st.Search)
	} else if n > 0 {
		notices = append(notices, Notice{
			Kind:    NoticeSearchTooShort,
			Message: "enter at least 3 characters to search by name",
		})
	}

	page, pageCount, window := Paginate(filtered, st.Page, st.PageSize)
	st.Page = page

	return st, Result{
		Records:    window,
		Filtered:   filtered,
		Total:      len(filtered),
		Page:       page,
		PageCount:  pageCount,
		TypeCounts: TypeCounts(records),
		Notices:    notices,
	}
}

// Paginate slices the 1-based page of size pageSize out of records.
// pageSize <= 0 disables pagination. The page count is never below 1, and an
// out-of-range page yields an empty window with the true page count.
func Paginate(records []domain.SanctionRecord, page, pageSize int) (int, int, []domain.SanctionRecord) {
	if pageSize <= 0 {
		return 1, 1, records
	}
	if page < 1 {
		page = 1
	}

	pageCount := (len(records) + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}

	start := (page - 1) * pageSize
	if start >= len(records) {
		return page, pageCount, nil
	}

	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return page, pageCount, records[start:end]
}

// Countries lists the distinct country values in sorted order.
func Countries(records []domain.SanctionRecord) []string {
	return distinct(records, func(r domain.SanctionRecord) string { return r.Country })
}

// TypeOptions lists the distinct subject-type labels in sorted order.
func TypeOptions(records []domain.SanctionRecord) []string {
	return distinct(records, func(r domain.SanctionRecord) string { return string(r.SubjectType) })
}

// TypeCounts tallies records per subject-type label.
func TypeCounts(records []domain.SanctionRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[string(r.SubjectType)]++
	}
	return counts
}

func filterCountries(records []domain.SanctionRecord, countries []string) []domain.SanctionRecord {
	if len(countries) == 0 {
		return records
	}

	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[c] = struct{}{}
	}

	kept := make([]domain.SanctionRecord, 0, len(records))
	for _, r := range records {
		if _, ok := allowed[r.Country]; ok {
			kept = append(kept, r)
		}
	}
	return kept
}

func filterType(records []domain.SanctionRecord, label string) []domain.SanctionRecord {
	kept := make([]domain.SanctionRecord, 0, len(records))
	for _, r := range records {
		if string(r.SubjectType) == label {
			kept = append(kept, r)
		}
	}
	return kept
}

func filterName(records []domain.SanctionRecord, search string) []domain.SanctionRecord {
	needle := strings.ToLower(search)
	kept := make([]domain.SanctionRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			kept = append(kept, r)
		}
	}
	return kept
}

func distinct(records []domain.SanctionRecord, key func(domain.SanctionRecord) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range records {
		v := key(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
