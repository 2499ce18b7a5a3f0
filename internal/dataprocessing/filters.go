package dataprocessing

import (
	"strings"

	"safetypulse/pkg/contracts/domain"
)

// searchText is the lower-cased haystack matched by ApplyTextSearch
func searchText(row domain.NormalizedRow) string {
	return strings.ToLower(strings.Join([]string{
		row.ID, row.Sector, row.Role, row.Domain, row.ItemDescription,
	}, " "))
}

// ApplyTextSearch keeps rows whose id, sector, role, domain or item contains
// term, ignoring case. A blank term returns rows as given.
func ApplyTextSearch(rows []domain.NormalizedRow, term string) []domain.NormalizedRow {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}

	out := make([]domain.NormalizedRow, 0)
	for _, row := range rows {
		if strings.Contains(searchText(row), term) {
			out = append(out, row)
		}
	}
	return out
}

// ApplyFieldFilters keeps rows matching every set filter. Shift matches by
// case-insensitive containment; the other fields require equality.
func ApplyFieldFilters(rows []domain.NormalizedRow, filters domain.FieldFilters) []domain.NormalizedRow {
	if filters.IsEmpty() {
		return rows
	}

	shift := strings.ToLower(filters.Shift)
	out := make([]domain.NormalizedRow, 0)
	for _, row := range rows {
		if matchExact(filters.Sector, row.Sector) &&
			matchExact(filters.Role, row.Role) &&
			matchExact(filters.Phase, row.Phase) &&
			matchExact(filters.Domain, row.Domain) &&
			matchExact(filters.Response, row.ResponseValue) &&
			(shift == "" || strings.Contains(strings.ToLower(row.Shift), shift)) {
			out = append(out, row)
		}
	}
	return out
}

func matchExact(want, got string) bool {
	return want == "" || want == got
}

// ApplyQuery applies the field filters and then the text search
func ApplyQuery(rows []domain.NormalizedRow, q domain.RowQuery) []domain.NormalizedRow {
	return ApplyTextSearch(ApplyFieldFilters(rows, q.Filters), q.Search)
}
