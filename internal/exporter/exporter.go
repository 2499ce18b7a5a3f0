package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"safetypulse/internal/config"
	apierrors "safetypulse/internal/errors"
	"safetypulse/pkg/contracts/domain"
)

// Exporter renders inspection rows as CSV or XLSX
type Exporter struct {
	paths  *config.Paths
	logger *slog.Logger
	now    func() time.Time
}

// New creates an exporter writing files under paths.ExportsDir
func New(paths *config.Paths, logger *slog.Logger) *Exporter {
	return &Exporter{
		paths:  paths,
		logger: logger.With(slog.String("component", "exporter")),
		now:    time.Now,
	}
}

// Export writes the selected table for rows to w
func (e *Exporter) Export(ctx context.Context, w io.Writer, format Format, kind Kind, rows []domain.NormalizedRow) error {
	t := buildTable(kind, rows)

	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(w, WriteOptions{Headers: t.headers, Records: t.records, BOMPrefix: true})
	case FormatXLSX:
		err = WriteXLSX(w, t)
	default:
		return apierrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return apierrors.NewExportError("failed to write export", err)
	}

	e.logger.InfoContext(ctx, "export written",
		slog.String("format", string(format)),
		slog.String("kind", string(kind)),
		slog.Int("records", len(t.records)),
	)
	return nil
}

// ExportFile writes the export to path, or to a timestamped file in the exports directory when path is empty.
// It returns the path written.
func (e *Exporter) ExportFile(ctx context.Context, path string, format Format, kind Kind, rows []domain.NormalizedRow) (string, error) {
	if path == "" {
		path = e.paths.ExportPath(FileName(format, kind, e.now()))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apierrors.NewExportError("failed to create directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", apierrors.NewExportError("failed to create file", err)
	}

	if err := e.Export(ctx, file, format, kind, rows); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", apierrors.NewExportError("failed to close file", err)
	}
	return path, nil
}

// FileName returns the download name for an export made now
func (e *Exporter) FileName(format Format, kind Kind) string {
	return FileName(format, kind, e.now())
}
