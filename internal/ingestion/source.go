package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"safetypulse/internal/config"
	"safetypulse/internal/infrastructure"
)

// Source delivers the raw records of one fetch
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// NewSource builds the source selected by cfg.Kind
func NewSource(ctx context.Context, cfg config.SourceConfig, client *http.Client, logger *slog.Logger) (Source, error) {
	switch cfg.Kind {
	case "gviz", "":
		return NewGvizSource(cfg, client, logger), nil
	case "sheets":
		return NewSheetsAPISource(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported source kind: %q", cfg.Kind)
	}
}

// Ingester fetches from a Source and normalizes the result
type Ingester struct {
	source     Source
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewIngester combines a source with a column layout
func NewIngester(source Source, columns ColumnMap, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Ingester{
		source:     source,
		normalizer: NewNormalizer(columns),
		logger:     infrastructure.WithComponent(logger, "ingester"),
	}
}

// NewIngesterFromConfig wires the configured source and column layout
func NewIngesterFromConfig(ctx context.Context, cfg config.SourceConfig, client *http.Client, logger *slog.Logger) (*Ingester, error) {
	columns, err := ParseColumnMap(cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("invalid column map: %w", err)
	}

	source, err := NewSource(ctx, cfg, client, logger)
	if err != nil {
		return nil, err
	}

	return NewIngester(source, columns, logger), nil
}

// SourceName identifies the underlying source
func (i *Ingester) SourceName() string {
	return i.source.Name()
}

// Load performs one fetch and returns the normalized rows
func (i *Ingester) Load(ctx context.Context) (Result, error) {
	start := time.Now()

	records, err := i.source.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	res := i.normalizer.Normalize(records)

	i.logger.DebugContext(ctx, "rows normalized",
		slog.String("source", i.source.Name()),
		slog.Int("records", len(records)),
		slog.Int("rows", len(res.Rows)),
		slog.Int("dropped", res.Dropped),
		slog.Duration("duration", time.Since(start)))

	return res, nil
}
