package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetypulse/internal/config"
	"safetypulse/internal/ingestion"
	"safetypulse/internal/shared/testutil"
)

type fakeLoader struct {
	mu    sync.Mutex
	rows  int
	err   error
	calls atomic.Int32
}

func (f *fakeLoader) Load(ctx context.Context) (ingestion.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return ingestion.Result{}, f.err
	}
	rows := testutil.SampleRows()
	if f.rows > 0 && f.rows < len(rows) {
		rows = rows[:f.rows]
	}
	return ingestion.Result{Rows: rows}, nil
}

func (f *fakeLoader) SourceName() string { return "fake" }

func (f *fakeLoader) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Paths.ExecutableDir = dir
	cfg.Paths.LogsDir = dir + "/logs"
	cfg.Paths.ExportsDir = dir + "/exports"
	cfg.Source.SpreadsheetID = "sheet-id"
	cfg.Security.RateLimit.Enabled = false
	cfg.Telemetry.MetricExporter = "none"
	cfg.Refresh.OnStartup = false
	cfg.Refresh.Interval = 0
	cfg.Refresh.ForegroundRetries = 0
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, loader *fakeLoader) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger, WithLoader(loader))
	require.NoError(t, err)
	return app
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Count  int             `json:"count"`
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApplication_Routes(t *testing.T) {
	app := newTestApp(t, testConfig(t), &fakeLoader{})

	t.Run("liveness", func(t *testing.T) {
		rec := get(t, app.Router, "/api/health/live")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"alive"`)
	})

	t.Run("not ready before first load", func(t *testing.T) {
		rec := get(t, app.Router, "/api/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("version", func(t *testing.T) {
		rec := get(t, app.Router, "/api/version")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"api_version"`)
	})

	t.Run("rows before first load", func(t *testing.T) {
		rec := get(t, app.Router, "/api/data/rows")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := get(t, app.Router, "/api/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("security headers and request id", func(t *testing.T) {
		rec := get(t, app.Router, "/api/health")
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})
}

func TestApplication_QueriesAfterLoad(t *testing.T) {
	app := newTestApp(t, testConfig(t), &fakeLoader{})
	require.NoError(t, app.Snapshots.Load(context.Background()))

	rec := get(t, app.Router, "/api/data/rows?sector=Manuten%C3%A7%C3%A3o")
	require.Equal(t, http.StatusOK, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 4, body.Count)

	rec = get(t, app.Router, "/api/data/transactions")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)

	rec = get(t, app.Router, "/api/data/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_entries":6`)

	rec = get(t, app.Router, "/api/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, app.Router, "/api/data/export.csv?kind=transactions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inspecoes_transacoes_")
}

func TestApplication_RefreshFailureKeepsRows(t *testing.T) {
	loader := &fakeLoader{}
	app := newTestApp(t, testConfig(t), loader)
	require.NoError(t, app.Snapshots.Load(context.Background()))

	loader.fail(fmt.Errorf("connection refused"))
	req := httptest.NewRequest(http.MethodPost, "/api/data/refresh", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.GreaterOrEqual(t, rec.Code, 500)

	rec = get(t, app.Router, "/api/data/rows")
	require.Equal(t, http.StatusOK, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 6, body.Count)

	status := app.Snapshots.Status()
	assert.NotEmpty(t, status.Error)
	assert.False(t, status.Loading)
}

func TestApplication_PrometheusEndpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricExporter = "prometheus"
	app := newTestApp(t, cfg, &fakeLoader{})
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })

	get(t, app.Router, "/api/health")

	rec := get(t, app.Router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}
	app := newTestApp(t, cfg, &fakeLoader{})

	first := get(t, app.Router, "/api/health/live")
	second := get(t, app.Router, "/api/health/live")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestApplication_ServeLifecycle(t *testing.T) {
	cfg := testConfig(t)
	cfg.Refresh.OnStartup = true
	loader := &fakeLoader{}
	app := newTestApp(t, cfg, loader)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		return app.Snapshots.Status().Version == 1
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get(base + "/api/data/status")
	require.NoError(t, err)
	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(payload), `"row_count":6`)

	wsURL := "ws" + strings.TrimPrefix(base, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, first, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(first), `"type":"connection"`)

	require.NoError(t, app.Snapshots.Load(context.Background()))
	_, update, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(update), `"type":"snapshot:updated"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not stop")
	}
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestApplication_BackgroundRefresh(t *testing.T) {
	cfg := testConfig(t)
	cfg.Refresh.Interval = time.Second
	loader := &fakeLoader{}
	app := newTestApp(t, cfg, loader)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		return app.Snapshots.Status().Version >= 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
