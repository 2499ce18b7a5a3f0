package http

import (
	"context"
	"io"

	"safetypulse/internal/exporter"
	"safetypulse/pkg/contracts/domain"
)

// DataServiceInterface is the query facade the data handler reads from
type DataServiceInterface interface {
	Status(ctx context.Context) domain.SnapshotStatus
	Rows(ctx context.Context, q domain.RowQuery) ([]domain.NormalizedRow, error)
	Transactions(ctx context.Context, q domain.RowQuery, sortBy domain.TransactionSort) ([]domain.GroupedTransaction, error)
	Transaction(ctx context.Context, id string) ([]domain.NormalizedRow, error)
	Breakdown(ctx context.Context, q domain.RowQuery, field domain.Field, topN int) ([]domain.CategoryBreakdown, error)
	WeightTotals(ctx context.Context, q domain.RowQuery, field domain.Field) ([]domain.SegmentTotal, error)
	WeightAverages(ctx context.Context, q domain.RowQuery, field domain.Field) ([]domain.SegmentAverage, error)
	Conformance(ctx context.Context, q domain.RowQuery) (domain.Conformance, error)
	Summary(ctx context.Context, q domain.RowQuery) (domain.DashboardSummary, error)
}

// SnapshotLoader runs a foreground load for manual refreshes
type SnapshotLoader interface {
	Load(ctx context.Context) error
}

// Exporter renders rows as a downloadable file
type Exporter interface {
	Export(ctx context.Context, w io.Writer, format exporter.Format, kind exporter.Kind, rows []domain.NormalizedRow) error
	FileName(format exporter.Format, kind exporter.Kind) string
}
