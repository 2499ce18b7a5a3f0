package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetypulse/internal/infrastructure"
)

type countingRefresher struct {
	calls   atomic.Int32
	lastCtx atomic.Value
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	c.lastCtx.Store(ctx)
	return nil
}

func TestRefresherSchedule(t *testing.T) {
	r := NewRefresher(&countingRefresher{}, 30*time.Second, nil)
	assert.Equal(t, "@every 30s", r.Schedule())
}

func TestRefresherRejectsNonPositiveInterval(t *testing.T) {
	r := NewRefresher(&countingRefresher{}, 0, nil)
	assert.ErrorContains(t, r.Start(), "must be positive")
}

func TestRefresherTickCarriesTraceID(t *testing.T) {
	target := &countingRefresher{}
	r := NewRefresher(target, time.Minute, nil)

	r.tick()

	assert.Equal(t, int32(1), target.calls.Load())
	ctx := target.lastCtx.Load().(context.Context)
	assert.NotEmpty(t, infrastructure.GetTraceID(ctx))
}

func TestRefresherRunsOnSchedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}

	target := &countingRefresher{}
	r := NewRefresher(target, time.Second, nil)
	require.NoError(t, r.Start())

	require.Eventually(t, func() bool { return target.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Stop(ctx))

	stopped := target.calls.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, stopped, target.calls.Load())
}
