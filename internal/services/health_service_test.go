package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"safetypulse/internal/config"
	"safetypulse/pkg/contracts"
)

type fakeHub struct{ clients int }

func (f fakeHub) ClientCount() int { return f.clients }

func TestHealthServiceHealthAndLiveness(t *testing.T) {
	hs := NewHealthService(staticReader{}, nil, nil, nil)
	ctx := context.Background()

	assert.Equal(t, "ok", hs.HealthCheck(ctx).Status)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, contracts.Version, v["version"])
	assert.Equal(t, contracts.APIVersion, v["api_version"])
}

func TestHealthServiceReadiness(t *testing.T) {
	ctx := context.Background()

	t.Run("not ready before first load", func(t *testing.T) {
		hs := NewHealthService(staticReader{}, fakeHub{}, nil, nil)
		st := hs.ReadinessCheck(ctx)

		assert.Equal(t, "not_ready", st.Status)
		assert.Equal(t, "not_ready", st.Services["snapshot"].(ServiceHealth).Status)
	})

	t.Run("ready with snapshot and exports dir", func(t *testing.T) {
		paths := &config.Paths{ExportsDir: t.TempDir()}
		hs := NewHealthService(loadedReader(), fakeHub{clients: 2}, paths, nil)
		st := hs.ReadinessCheck(ctx)

		assert.Equal(t, "ready", st.Status)
		assert.Equal(t, "2 clients connected", st.Services["websocket"].(ServiceHealth).Message)
	})

	t.Run("missing exports dir", func(t *testing.T) {
		paths := &config.Paths{ExportsDir: t.TempDir() + "/missing"}
		hs := NewHealthService(loadedReader(), nil, paths, nil)
		st := hs.ReadinessCheck(ctx)

		assert.Equal(t, "not_ready", st.Status)
		assert.Equal(t, "not_ready", st.Services["exports"].(ServiceHealth).Status)
	})
}
