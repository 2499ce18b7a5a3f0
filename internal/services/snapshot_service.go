package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"safetypulse/internal/config"
	"safetypulse/internal/dataprocessing"
	apperrors "safetypulse/internal/errors"
	"safetypulse/internal/infrastructure"
	"safetypulse/internal/ingestion"
	"safetypulse/pkg/contracts/domain"
)

// Fetch modes, used in logs and metrics
const (
	ModeForeground = "foreground"
	ModeBackground = "background"
)

// Loader performs one ingestion pass
type Loader interface {
	Load(ctx context.Context) (ingestion.Result, error)
	SourceName() string
}

// RetryPolicy bounds foreground retries. Retries is the number of attempts
// after the first one.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

// RetryPolicyFrom reads the foreground retry settings
func RetryPolicyFrom(cfg config.RefreshConfig) RetryPolicy {
	return RetryPolicy{Retries: cfg.ForegroundRetries, Delay: cfg.RetryDelay}
}

// Snapshot is an immutable view of the current rows. Rows must not be modified.
type Snapshot struct {
	Rows        []domain.NormalizedRow
	LastUpdated time.Time
	Version     uint64
	Loaded      bool
}

// SnapshotListener is notified with the new status after a replace or a failed foreground load
type SnapshotListener func(ctx context.Context, status domain.SnapshotStatus)

// SnapshotService owns the current snapshot
type SnapshotService struct {
	loader  Loader
	retry   RetryPolicy
	metrics *infrastructure.FetchMetrics
	logger  *slog.Logger
	now     func() time.Time

	mu               sync.RWMutex
	snap             Snapshot
	transactionCount int
	loading          int
	lastErr          string
	listeners        []SnapshotListener
}

// NewSnapshotService creates an empty snapshot service
func NewSnapshotService(loader Loader, retry RetryPolicy, metrics *infrastructure.FetchMetrics, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if metrics == nil {
		metrics = infrastructure.NoopFetchMetrics()
	}
	if retry.Retries < 0 {
		retry.Retries = 0
	}

	return &SnapshotService{
		loader:  loader,
		retry:   retry,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "snapshot_service"),
		now:     time.Now,
	}
}

// OnUpdate registers a listener
func (s *SnapshotService) OnUpdate(fn SnapshotListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Load is a foreground load: it raises the loading flag, clears the previous
// error and retries per the policy. On final failure the previous rows stay
// and the viewer-facing message is recorded. Cancelling ctx abandons the load
// without recording an error or notifying listeners, and returns ctx.Err().
func (s *SnapshotService) Load(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	s.mu.Lock()
	s.loading++
	prev := loadState{err: s.lastErr, version: s.snap.Version}
	s.lastErr = ""
	s.mu.Unlock()

	attempts := 1 + s.retry.Retries
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return s.abandon(ctx, prev, attempt-1)
		}

		var res ingestion.Result
		res, err = s.fetch(ctx, ModeForeground, attempt)
		if err == nil {
			s.mu.Lock()
			s.loading--
			s.mu.Unlock()
			s.replace(ctx, res)
			return nil
		}

		if ctx.Err() != nil {
			return s.abandon(ctx, prev, attempt)
		}
		if attempt == attempts {
			break
		}

		logger.WarnContext(ctx, "foreground load failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", s.retry.Delay),
			slog.String("error", err.Error()))

		timer := time.NewTimer(s.retry.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return s.abandon(ctx, prev, attempt)
		}
	}

	message := apperrors.UserMessage(err)
	logger.ErrorContext(ctx, "foreground load failed",
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()))

	s.mu.Lock()
	s.loading--
	s.lastErr = message
	s.mu.Unlock()

	s.notify(ctx)
	return err
}

// loadState is what a foreground load restores when it is cancelled
type loadState struct {
	err     string
	version uint64
}

// abandon ends a cancelled foreground load. The error recorded before the
// load is restored unless another fetch has replaced or failed meanwhile.
func (s *SnapshotService) abandon(ctx context.Context, prev loadState, attempts int) error {
	infrastructure.LoggerWithContext(ctx, s.logger).InfoContext(ctx, "foreground load cancelled",
		slog.Int("attempts", attempts),
		slog.String("reason", context.Cause(ctx).Error()))

	s.mu.Lock()
	s.loading--
	if s.lastErr == "" && s.snap.Version == prev.version {
		s.lastErr = prev.err
	}
	s.mu.Unlock()
	return ctx.Err()
}

// Refresh is a background load: one attempt, silent on failure
func (s *SnapshotService) Refresh(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)

	res, err := s.fetch(ctx, ModeBackground, 1)
	if err != nil {
		infrastructure.LoggerWithContext(ctx, s.logger).WarnContext(ctx, "background refresh failed, keeping current snapshot",
			slog.String("error", err.Error()))
		return err
	}

	s.replace(ctx, res)
	return nil
}

func (s *SnapshotService) fetch(ctx context.Context, mode string, attempt int) (ingestion.Result, error) {
	start := time.Now()
	res, err := s.loader.Load(ctx)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(string(apperrors.TypeOf(err)))
		if outcome == "" {
			outcome = "error"
		}
	}
	s.metrics.RecordFetch(ctx, mode, outcome, elapsed, len(res.Rows), res.Dropped)

	infrastructure.LoggerWithContext(ctx, s.logger).InfoContext(ctx, "fetch completed",
		slog.String("source", s.loader.SourceName()),
		slog.String("mode", mode),
		slog.Int("attempt", attempt),
		slog.String("outcome", outcome),
		slog.Duration("duration", elapsed),
		slog.Int("rows", len(res.Rows)),
		slog.Int("dropped", res.Dropped))

	return res, err
}

// replace installs rows as the current snapshot. The most recently completed
// fetch always wins.
func (s *SnapshotService) replace(ctx context.Context, res ingestion.Result) {
	if ids := dataprocessing.InconsistentTransactions(res.Rows); len(ids) > 0 {
		infrastructure.LoggerWithContext(ctx, s.logger).WarnContext(ctx, "transactions with inconsistent context fields",
			slog.Int("count", len(ids)),
			slog.Any("ids", ids))
	}
	transactions := dataprocessing.CountTransactions(res.Rows)

	s.mu.Lock()
	s.snap = Snapshot{
		Rows:        res.Rows,
		LastUpdated: s.now(),
		Version:     s.snap.Version + 1,
		Loaded:      true,
	}
	s.transactionCount = transactions
	s.lastErr = ""
	s.mu.Unlock()

	s.notify(ctx)
}

func (s *SnapshotService) notify(ctx context.Context) {
	s.mu.RLock()
	listeners := make([]SnapshotListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	status := s.Status()
	for _, fn := range listeners {
		fn(ctx, status)
	}
}

// Snapshot returns the current snapshot
func (s *SnapshotService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Status describes the current snapshot and load state
func (s *SnapshotService) Status() domain.SnapshotStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SnapshotStatus{
		Loading:          s.loading > 0,
		Error:            s.lastErr,
		LastUpdated:      s.snap.LastUpdated,
		RowCount:         len(s.snap.Rows),
		TransactionCount: s.transactionCount,
		Version:          s.snap.Version,
		Source:           s.loader.SourceName(),
	}
}
