package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"safetypulse/internal/config"
	"safetypulse/internal/infrastructure"
)

// SheetsAPISource reads the same range through the Sheets API v4 with an API key.
// Values are requested formatted, so each cell carries its display text in V.
type SheetsAPISource struct {
	service       *sheets.Service
	spreadsheetID string
	a1Range       string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewSheetsAPISource creates the Sheets API client
func NewSheetsAPISource(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (*SheetsAPISource, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.SheetsEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.SheetsEndpoint))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &SheetsAPISource{
		service:       svc,
		spreadsheetID: cfg.SpreadsheetID,
		a1Range:       A1Range(cfg.SheetName, cfg.Range),
		timeout:       cfg.Timeout,
		logger:        infrastructure.WithComponent(logger, "sheets_source"),
	}, nil
}

// A1Range quotes a sheet name and joins it with a column range
func A1Range(sheetName, cellRange string) string {
	if cellRange == "" {
		return fmt.Sprintf("'%s'", sheetName)
	}
	return fmt.Sprintf("'%s'!%s", sheetName, cellRange)
}

// Name identifies the source kind
func (s *SheetsAPISource) Name() string {
	return "sheets"
}

// Fetch reads the configured range once
func (s *SheetsAPISource) Fetch(ctx context.Context) ([]RawRecord, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.a1Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	records := make([]RawRecord, len(resp.Values))
	for i, row := range resp.Values {
		rec := make(RawRecord, len(row))
		for j, v := range row {
			rec[j] = &Cell{V: v}
		}
		records[i] = rec
	}
	return records, nil
}

func (s *SheetsAPISource) classify(ctx context.Context, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		s.logger.WarnContext(ctx, "sheets api error",
			slog.Int("status", apiErr.Code),
			slog.String("message", apiErr.Message))

		switch {
		case apiErr.Code >= http.StatusInternalServerError:
			return unavailableError(apiErr.Code)
		case apiErr.Code == http.StatusTooManyRequests:
			return unavailableError(apiErr.Code)
		default:
			return sourceError(apiErr.Message)
		}
	}

	if ctx.Err() != nil {
		return classifyTransport(ctx.Err())
	}
	return classifyTransport(err)
}
