package dataprocessing

import (
	"time"

	"safetypulse/pkg/contracts/domain"
)

// TopSectorsLimit is how many sectors the dashboard summary lists
const TopSectorsLimit = 5

// Summarize builds the dashboard headline figures for rows
func Summarize(rows []domain.NormalizedRow, lastUpdated time.Time) domain.DashboardSummary {
	return domain.DashboardSummary{
		TotalEntries:          len(rows),
		TotalTransactions:     CountTransactions(rows),
		TopSectors:            BreakdownByField(rows, domain.FieldSector, TopSectorsLimit),
		Domains:               BreakdownByField(rows, domain.FieldDomain, 0),
		Conformance:           ConformanceRate(rows),
		WeightByShift:         SegmentTotals(rows, domain.FieldShift),
		AverageWeightBySector: AverageWeightBySegment(rows, domain.FieldSector),
		LastUpdated:           lastUpdated,
	}
}

// CountTransactions returns the number of distinct identifiers in rows
func CountTransactions(rows []domain.NormalizedRow) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[row.ID] = struct{}{}
	}
	return len(seen)
}
