package dataprocessing

import (
	"sort"
	"strings"

	"safetypulse/pkg/contracts/domain"
)

// NotAvailableLabel stands in for an absent category value
const NotAvailableLabel = "N/A"

func segmentLabel(row domain.NormalizedRow, field domain.Field) string {
	v := row.Value(field)
	if strings.TrimSpace(v) == "" {
		return NotAvailableLabel
	}
	return v
}

// BreakdownByField counts rows per value of field, most frequent first.
// Equal counts are ordered by label. Percentages are relative to len(rows).
// topN <= 0 keeps every entry.
func BreakdownByField(rows []domain.NormalizedRow, field domain.Field, topN int) []domain.CategoryBreakdown {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[segmentLabel(row, field)]++
	}

	out := make([]domain.CategoryBreakdown, 0, len(counts))
	for label, n := range counts {
		out = append(out, domain.CategoryBreakdown{
			Label:      label,
			Count:      n,
			Percentage: float64(n) / float64(len(rows)) * 100,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
