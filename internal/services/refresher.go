package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"safetypulse/internal/infrastructure"
)

// BackgroundRefresher is the part of SnapshotService driven by the scheduler
type BackgroundRefresher interface {
	Refresh(ctx context.Context) error
}

// Refresher triggers background refreshes on a fixed interval. Ticks are not
// deduplicated; overlapping refreshes resolve by completion order.
type Refresher struct {
	cron     *cron.Cron
	target   BackgroundRefresher
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a stopped scheduler
func NewRefresher(target BackgroundRefresher, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "refresher")

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return &Refresher{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Schedule is the cron expression used for the interval
func (r *Refresher) Schedule() string {
	return fmt.Sprintf("@every %s", r.interval)
}

// Start schedules the refresh job and starts the scheduler
func (r *Refresher) Start() error {
	if r.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", r.interval)
	}
	if _, err := r.cron.AddFunc(r.Schedule(), r.tick); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info("background refresh scheduled", slog.String("schedule", r.Schedule()))
	return nil
}

// Stop halts the scheduler and waits for a running refresh or ctx, whichever ends first
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		r.logger.Info("background refresh stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Refresher) tick() {
	ctx := infrastructure.WithTraceID(context.Background(), infrastructure.GenerateTraceID())
	// failures are logged by the target
	_ = r.target.Refresh(ctx)
}
