package services

import (
	"context"
	"log/slog"

	"safetypulse/internal/dataprocessing"
	"safetypulse/internal/infrastructure"
	"safetypulse/pkg/contracts/domain"
)

// SnapshotReader exposes the current snapshot
type SnapshotReader interface {
	Snapshot() Snapshot
	Status() domain.SnapshotStatus
}

// DataService answers viewer queries against the current snapshot
type DataService struct {
	snapshots SnapshotReader
	logger    *slog.Logger
}

// NewDataService creates a query facade over snapshots
func NewDataService(snapshots SnapshotReader, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &DataService{
		snapshots: snapshots,
		logger:    infrastructure.WithComponent(logger, "data_service"),
	}
}

// rows returns the snapshot narrowed by q
func (ds *DataService) rows(ctx context.Context, q domain.RowQuery) (Snapshot, []domain.NormalizedRow, error) {
	snap := ds.snapshots.Snapshot()
	if !snap.Loaded {
		return snap, nil, ErrNoSnapshot
	}

	rows := dataprocessing.ApplyQuery(snap.Rows, q)
	ds.logger.DebugContext(ctx, "rows selected",
		slog.Uint64("version", snap.Version),
		slog.Int("total", len(snap.Rows)),
		slog.Int("selected", len(rows)))
	return snap, rows, nil
}

// Status returns the snapshot status
func (ds *DataService) Status(ctx context.Context) domain.SnapshotStatus {
	return ds.snapshots.Status()
}

// Rows returns the detail rows matching q in source order
func (ds *DataService) Rows(ctx context.Context, q domain.RowQuery) ([]domain.NormalizedRow, error) {
	_, rows, err := ds.rows(ctx, q)
	return rows, err
}

// Transactions groups the matching rows and orders them by sortBy
func (ds *DataService) Transactions(ctx context.Context, q domain.RowQuery, sortBy domain.TransactionSort) ([]domain.GroupedTransaction, error) {
	_, rows, err := ds.rows(ctx, q)
	if err != nil {
		return nil, err
	}

	groups := dataprocessing.GroupByTransaction(rows)
	dataprocessing.SortTransactions(groups, sortBy)
	return groups, nil
}

// Transaction returns the detail rows of one transaction
func (ds *DataService) Transaction(ctx context.Context, id string) ([]domain.NormalizedRow, error) {
	snap := ds.snapshots.Snapshot()
	if !snap.Loaded {
		return nil, ErrNoSnapshot
	}

	detail := dataprocessing.TransactionDetail(snap.Rows, id)
	if len(detail) == 0 {
		return nil, ErrTransactionNotFound
	}
	return detail, nil
}

// Breakdown counts matching rows per value of field
func (ds *DataService) Breakdown(ctx context.Context, q domain.RowQuery, field domain.Field, topN int) ([]domain.CategoryBreakdown, error) {
	if !field.IsCategorical() {
		return nil, ErrUnknownField
	}
	_, rows, err := ds.rows(ctx, q)
	if err != nil {
		return nil, err
	}
	return dataprocessing.BreakdownByField(rows, field, topN), nil
}

// WeightTotals sums weights of matching rows per value of field
func (ds *DataService) WeightTotals(ctx context.Context, q domain.RowQuery, field domain.Field) ([]domain.SegmentTotal, error) {
	if !field.IsCategorical() {
		return nil, ErrUnknownField
	}
	_, rows, err := ds.rows(ctx, q)
	if err != nil {
		return nil, err
	}
	return dataprocessing.SegmentTotals(rows, field), nil
}

// WeightAverages averages weights of matching rows per value of field
func (ds *DataService) WeightAverages(ctx context.Context, q domain.RowQuery, field domain.Field) ([]domain.SegmentAverage, error) {
	if !field.IsCategorical() {
		return nil, ErrUnknownField
	}
	_, rows, err := ds.rows(ctx, q)
	if err != nil {
		return nil, err
	}
	return dataprocessing.AverageWeightBySegment(rows, field), nil
}

// Conformance computes the conformance rate of matching rows
func (ds *DataService) Conformance(ctx context.Context, q domain.RowQuery) (domain.Conformance, error) {
	_, rows, err := ds.rows(ctx, q)
	if err != nil {
		return domain.Conformance{}, err
	}
	return dataprocessing.ConformanceRate(rows), nil
}

// Summary builds the dashboard summary of matching rows
func (ds *DataService) Summary(ctx context.Context, q domain.RowQuery) (domain.DashboardSummary, error) {
	snap, rows, err := ds.rows(ctx, q)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	return dataprocessing.Summarize(rows, snap.LastUpdated), nil
}
