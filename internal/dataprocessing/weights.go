package dataprocessing

import (
	"sort"

	"safetypulse/pkg/contracts/domain"
)

// SumWeightBySegment totals parsed weights per value of segmentField
func SumWeightBySegment(rows []domain.NormalizedRow, segmentField domain.Field) map[string]float64 {
	totals := make(map[string]float64)
	for _, row := range rows {
		totals[segmentLabel(row, segmentField)] += row.WeightValue()
	}
	return totals
}

// SegmentTotals is SumWeightBySegment as a slice, largest total first then by label
func SegmentTotals(rows []domain.NormalizedRow, segmentField domain.Field) []domain.SegmentTotal {
	totals := SumWeightBySegment(rows, segmentField)

	out := make([]domain.SegmentTotal, 0, len(totals))
	for label, total := range totals {
		out = append(out, domain.SegmentTotal{Label: label, Total: total})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// AverageWeightBySegment averages parsed weights per value of segmentField.
// PercentageOfMax scales each average against the largest one; when no
// average is positive the denominator is 1. Largest average first, then by label.
func AverageWeightBySegment(rows []domain.NormalizedRow, segmentField domain.Field) []domain.SegmentAverage {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range rows {
		label := segmentLabel(row, segmentField)
		sums[label] += row.WeightValue()
		counts[label]++
	}

	out := make([]domain.SegmentAverage, 0, len(sums))
	maxAvg := 0.0
	for label, sum := range sums {
		avg := sum / float64(counts[label])
		if avg > maxAvg {
			maxAvg = avg
		}
		out = append(out, domain.SegmentAverage{Label: label, Average: avg})
	}

	denominator := maxAvg
	if denominator <= 0 {
		denominator = 1
	}
	for i := range out {
		out[i].PercentageOfMax = out[i].Average / denominator * 100
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Label < out[j].Label
	})
	return out
}
