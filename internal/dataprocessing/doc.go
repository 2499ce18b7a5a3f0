// Package dataprocessing derives every display-ready view of an inspection
// snapshot from its NormalizedRow sequence.
//
// # Operations
//
// All functions are pure. They never modify the input slice or its elements
// and always return freshly allocated results, so a snapshot can be shared by
// concurrent readers without copying.
//
//	groups := dataprocessing.GroupByTransaction(rows)
//	dataprocessing.SortTransactions(groups, domain.TransactionSort{Key: domain.SortByCount, Direction: domain.SortDescending})
//
//	sectors := dataprocessing.BreakdownByField(rows, domain.FieldSector, 5)
//	rate := dataprocessing.ConformanceRate(rows)
//
// # Filtering
//
// Viewer narrowing is applied before aggregation: field filters first, then
// the free-text search.
//
//	visible := dataprocessing.ApplyQuery(rows, domain.RowQuery{Search: "epi"})
//
// # Malformed values
//
// Weights that cannot be parsed count as zero. No operation here returns an
// error; an empty input produces empty (non-nil) output.
package dataprocessing
