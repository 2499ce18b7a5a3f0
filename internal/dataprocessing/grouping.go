package dataprocessing

import (
	"sort"
	"strings"

	"safetypulse/pkg/contracts/domain"
)

// GroupByTransaction partitions rows by identifier. Context fields come from
// the first row of each transaction. Groups are returned in order of first
// appearance. Conformance is the share of rows whose response mentions the
// affirmative sentinel.
func GroupByTransaction(rows []domain.NormalizedRow) []domain.GroupedTransaction {
	index := make(map[string]int)
	groups := make([]domain.GroupedTransaction, 0)
	sums := make([]float64, 0)
	affirmative := make([]int, 0)

	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			i = len(groups)
			index[row.ID] = i
			groups = append(groups, domain.GroupedTransaction{
				ID:        row.ID,
				Timestamp: row.Timestamp,
				Sector:    row.Sector,
				Role:      row.Role,
				Shift:     row.Shift,
				Phase:     row.Phase,
			})
			sums = append(sums, 0)
			affirmative = append(affirmative, 0)
		}

		g := &groups[i]
		g.Count++
		g.Rows = append(g.Rows, row)
		sums[i] += row.WeightValue()
		if MentionsAffirmative(row.ResponseValue) {
			affirmative[i]++
		}
	}

	for i := range groups {
		groups[i].AverageWeight = sums[i] / float64(groups[i].Count)
		groups[i].Conformance = float64(affirmative[i]) / float64(groups[i].Count) * 100
	}

	return groups
}

// TransactionDetail returns the detail rows of one transaction in source order
func TransactionDetail(rows []domain.NormalizedRow, id string) []domain.NormalizedRow {
	out := make([]domain.NormalizedRow, 0)
	for _, row := range rows {
		if row.ID == id {
			out = append(out, row)
		}
	}
	return out
}

// InconsistentTransactions lists, in order of first appearance, the ids whose
// detail rows disagree on sector, role, shift or phase
func InconsistentTransactions(rows []domain.NormalizedRow) []string {
	first := make(map[string]domain.NormalizedRow)
	flagged := make(map[string]bool)
	out := make([]string, 0)

	for _, row := range rows {
		ref, seen := first[row.ID]
		if !seen {
			first[row.ID] = row
			continue
		}
		if flagged[row.ID] {
			continue
		}
		if ref.Sector != row.Sector || ref.Role != row.Role ||
			ref.Shift != row.Shift || ref.Phase != row.Phase {
			flagged[row.ID] = true
			out = append(out, row.ID)
		}
	}

	return out
}

// SortTransactions orders groups in place. An empty key sorts by id and an
// empty direction is ascending. Equal keys keep their relative order.
func SortTransactions(groups []domain.GroupedTransaction, by domain.TransactionSort) {
	key := by.Key
	if key == "" {
		key = domain.SortByID
	}
	desc := by.Direction == domain.SortDescending

	sort.SliceStable(groups, func(i, j int) bool {
		c := compareTransactions(groups[i], groups[j], key)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareTransactions(a, b domain.GroupedTransaction, key domain.TransactionSortKey) int {
	switch key {
	case domain.SortByTimestamp:
		return strings.Compare(a.Timestamp, b.Timestamp)
	case domain.SortBySector:
		return strings.Compare(a.Sector, b.Sector)
	case domain.SortByRole:
		return strings.Compare(a.Role, b.Role)
	case domain.SortByShift:
		return strings.Compare(a.Shift, b.Shift)
	case domain.SortByPhase:
		return strings.Compare(a.Phase, b.Phase)
	case domain.SortByCount:
		return compareFloat(float64(a.Count), float64(b.Count))
	case domain.SortByAverageWeight:
		return compareFloat(a.AverageWeight, b.AverageWeight)
	case domain.SortByConformance:
		return compareFloat(a.Conformance, b.Conformance)
	default:
		return strings.Compare(a.ID, b.ID)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
