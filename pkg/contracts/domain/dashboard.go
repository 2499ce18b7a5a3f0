package domain

import "time"

// DashboardSummary is the set of headline figures shown on the main view
type DashboardSummary struct {
	TotalEntries          int                 `json:"total_entries"`
	TotalTransactions     int                 `json:"total_transactions"`
	TopSectors            []CategoryBreakdown `json:"top_sectors"`
	Domains               []CategoryBreakdown `json:"domains"`
	Conformance           Conformance         `json:"conformance"`
	WeightByShift         []SegmentTotal      `json:"weight_by_shift"`
	AverageWeightBySector []SegmentAverage    `json:"average_weight_by_sector"`
	LastUpdated           time.Time           `json:"last_updated"`
}

// SnapshotStatus describes the currently held row snapshot
type SnapshotStatus struct {
	Loading          bool      `json:"loading"`
	Error            string    `json:"error,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
	RowCount         int       `json:"row_count"`
	TransactionCount int       `json:"transaction_count"`
	Version          uint64    `json:"version"`
	Source           string    `json:"source"`
}
