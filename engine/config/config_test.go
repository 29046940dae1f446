package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	src := `
window:
  width: 640
world:
  max_enemies: 5
  target_enemies: 3
  removal_delay: 1500ms
spectator:
  enabled: true
  addr: ":9999"
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.World.MaxEnemies)
	assert.Equal(t, 1500*time.Millisecond, cfg.World.RemovalDelay)
	assert.Equal(t, ":9999", cfg.Spectator.Addr)
	assert.Equal(t, Default().Spectator.Interval, cfg.Spectator.Interval)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick rate", func(c *Config) { c.Sim.TickRate = 0 }},
		{"target above cap", func(c *Config) { c.World.TargetEnemies = c.World.MaxEnemies + 1 }},
		{"inverted zoom", func(c *Config) { c.Camera.MinZoom, c.Camera.MaxZoom = 2, 1 }},
		{"no hysteresis", func(c *Config) { c.AI.ChaseExitFactor = 0.9 }},
		{"pet band inverted", func(c *Config) { c.AI.PetFollowMin = 100 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, ErrInvalidConfig, errors.Cause(err))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "game.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sim:\n  seed: 99\n"), 0o600))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, int64(99), cfg.Sim.Seed)
	})
}
