package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(1337), cfg.Seed)
	assert.Equal(t, 20, cfg.TickRate)
	assert.Equal(t, 8, cfg.RenderDistance)
	assert.Equal(t, 10, cfg.LoadDistance)
	assert.Equal(t, 12, cfg.UnloadDistance)
	assert.Equal(t, 3, cfg.Mesh.FrameBudget)
	assert.True(t, cfg.Mesh.AmbientOcclusion)
	assert.Equal(t, "127.0.0.1:7777", cfg.Network.Addr())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 42
render_distance: 6
load_distance: 8
unload_distance: 11
mesh:
  workers: 4
  ao_strength: 0.25
network:
  host: 0.0.0.0
  port: 9000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 6, cfg.RenderDistance)
	assert.Equal(t, 8, cfg.LoadDistance)
	assert.Equal(t, 11, cfg.UnloadDistance)
	assert.Equal(t, 4, cfg.Mesh.Workers)
	assert.InDelta(t, 0.25, cfg.Mesh.AOStrength, 1e-6)
	assert.Equal(t, "0.0.0.0:9000", cfg.Network.Addr())
	// Untouched fields keep their defaults.
	assert.Equal(t, 20, cfg.TickRate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestNormalizeKeepsHysteresis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
render_distance: 40
load_distance: 1
unload_distance: 1
tick_rate: 0
mesh:
  frame_budget: 0
  ao_strength: 3.0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.RenderDistance, "render distance clamped")
	assert.GreaterOrEqual(t, cfg.LoadDistance, cfg.RenderDistance)
	assert.GreaterOrEqual(t, cfg.UnloadDistance, cfg.LoadDistance+2,
		"unload distance must keep a hysteresis band above load distance")
	assert.Equal(t, 1, cfg.TickRate)
	assert.Equal(t, 3, cfg.Mesh.FrameBudget)
	assert.Equal(t, float32(1), cfg.Mesh.AOStrength)
}

func TestPortEnvFallback(t *testing.T) {
	n := NetworkConfig{Host: "localhost"}

	t.Setenv("BLOCKWORLD_PORT", "8123")
	assert.Equal(t, 8123, n.GetPort())
	assert.Equal(t, "localhost:8123", n.Addr())

	// Explicit config wins over the environment.
	n.Port = 7000
	assert.Equal(t, 7000, n.GetPort())

	t.Setenv("BLOCKWORLD_METRICS_PORT", "bogus")
	assert.Equal(t, 2112, n.GetMetricsPort(), "unparsable env value falls back to default")
}
