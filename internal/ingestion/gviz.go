package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"safetypulse/internal/config"
	"safetypulse/internal/infrastructure"
)

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 32 << 20

// GvizSource reads a sheet through the public visualization query endpoint
type GvizSource struct {
	client        *http.Client
	baseURL       string
	spreadsheetID string
	sheetName     string
	cellRange     string
	timeout       time.Duration
	now           func() time.Time
	tracer        trace.Tracer
	logger        *slog.Logger
}

// NewGvizSource creates a source from configuration. A nil client uses a default one.
func NewGvizSource(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) *GvizSource {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &GvizSource{
		client:        client,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		cellRange:     cfg.Range,
		timeout:       cfg.Timeout,
		now:           time.Now,
		tracer:        otel.Tracer("safetypulse/ingestion"),
		logger:        infrastructure.WithComponent(logger, "gviz_source"),
	}
}

// Name identifies the source kind
func (s *GvizSource) Name() string {
	return "gviz"
}

// URL builds the query URL. tcb defeats intermediate caches.
func (s *GvizSource) URL() string {
	q := url.Values{}
	q.Set("tqx", "out:json")
	q.Set("sheet", s.sheetName)
	if s.cellRange != "" {
		q.Set("range", s.cellRange)
	}
	q.Set("tcb", strconv.FormatInt(s.now().UnixMilli(), 10))

	return fmt.Sprintf("%s/%s/gviz/tq?%s", s.baseURL, url.PathEscape(s.spreadsheetID), q.Encode())
}

// Fetch performs one bounded GET and decodes the response
func (s *GvizSource) Fetch(ctx context.Context) ([]RawRecord, error) {
	ctx, span := s.tracer.Start(ctx, "ingestion.gviz.fetch",
		trace.WithAttributes(
			attribute.String("sheet", s.sheetName),
			attribute.String("range", s.cellRange),
		))
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	records, err := s.fetch(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func (s *GvizSource) fetch(ctx context.Context) ([]RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(), nil)
	if err != nil {
		return nil, classifyTransport(err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WarnContext(ctx, "gviz request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.WarnContext(ctx, "gviz endpoint returned non-success status",
			slog.Int("status", resp.StatusCode))
		return nil, unavailableError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransport(err)
	}

	s.logger.DebugContext(ctx, "gviz response received",
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))

	return ParseGvizResponse(body)
}
