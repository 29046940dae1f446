// Package config loads game settings from YAML on top of built-in defaults.
package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Sim       SimConfig       `yaml:"sim"`
	Log       LogConfig       `yaml:"log"`
	World     WorldConfig     `yaml:"world"`
	Combat    CombatConfig    `yaml:"combat"`
	AI        AIConfig        `yaml:"ai"`
	Camera    CameraConfig    `yaml:"camera"`
	Audio     AudioConfig     `yaml:"audio"`
	Spectator SpectatorConfig `yaml:"spectator"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type SimConfig struct {
	TickRate float64 `yaml:"tick_rate"`
	Seed     int64   `yaml:"seed"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // json or console
}

type WorldConfig struct {
	Width               float64       `yaml:"width"`
	Height              float64       `yaml:"height"`
	MaxEnemies          int           `yaml:"max_enemies"`
	TargetEnemies       int           `yaml:"target_enemies"`
	MaintenanceInterval time.Duration `yaml:"maintenance_interval"`
	RemovalDelay        time.Duration `yaml:"removal_delay"`
	RespawnDelay        time.Duration `yaml:"respawn_delay"`
	SafeRadius          float64       `yaml:"safe_radius"` // no enemy spawns this close to the player
}

type CombatConfig struct {
	KnockbackForce    float64       `yaml:"knockback_force"`
	KnockbackDuration time.Duration `yaml:"knockback_duration"`
	ShakeIntensity    float64       `yaml:"shake_intensity"`
	ShakeDuration     float64       `yaml:"shake_duration"`
	FlashAlpha        float64       `yaml:"flash_alpha"`
	PetManaCost       int           `yaml:"pet_mana_cost"`
}

type AIConfig struct {
	PatrolChance     float64 `yaml:"patrol_chance"`
	IdleChance       float64 `yaml:"idle_chance"`
	PatrolPoints     int     `yaml:"patrol_points"`
	PatrolRadius     float64 `yaml:"patrol_radius"`
	ChaseExitFactor  float64 `yaml:"chase_exit_factor"`
	AttackExitFactor float64 `yaml:"attack_exit_factor"`
	PetFollowMin     float64 `yaml:"pet_follow_min"`
	PetFollowMax     float64 `yaml:"pet_follow_max"`
}

type CameraConfig struct {
	Smoothing float64 `yaml:"smoothing"`
	MinZoom   float64 `yaml:"min_zoom"`
	MaxZoom   float64 `yaml:"max_zoom"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
	Range      float64 `yaml:"range"` // distance at which positional sounds fade out
}

type SpectatorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "RPG Engine"},
		Sim:    SimConfig{TickRate: 60, Seed: 1},
		Log:    LogConfig{Level: "info", Encoding: "console"},
		World: WorldConfig{
			Width:               3000,
			Height:              3000,
			MaxEnemies:          40,
			TargetEnemies:       12,
			MaintenanceInterval: 10 * time.Second,
			RemovalDelay:        2 * time.Second,
			RespawnDelay:        3 * time.Second,
			SafeRadius:          250,
		},
		Combat: CombatConfig{
			KnockbackForce:    18,
			KnockbackDuration: 150 * time.Millisecond,
			ShakeIntensity:    4,
			ShakeDuration:     0.2,
			FlashAlpha:        0.35,
			PetManaCost:       30,
		},
		AI: AIConfig{
			PatrolChance:     0.01,
			IdleChance:       0.005,
			PatrolPoints:     4,
			PatrolRadius:     80,
			ChaseExitFactor:  1.5,
			AttackExitFactor: 1.2,
			PetFollowMin:     40,
			PetFollowMax:     90,
		},
		Camera:    CameraConfig{Smoothing: 0.1, MinZoom: 0.5, MaxZoom: 3},
		Audio:     AudioConfig{Enabled: true, SampleRate: 44100, Volume: 0.6, Range: 600},
		Spectator: SpectatorConfig{Enabled: false, Addr: "127.0.0.1:8090", Interval: 100 * time.Millisecond},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// Decode parses YAML from r over the defaults and validates the result
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Wrapf(ErrInvalidConfig, "window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Sim.TickRate <= 0:
		return errors.Wrapf(ErrInvalidConfig, "tick rate %v", c.Sim.TickRate)
	case c.World.MaxEnemies < 0:
		return errors.Wrap(ErrInvalidConfig, "max_enemies must not be negative")
	case c.World.TargetEnemies > c.World.MaxEnemies:
		return errors.Wrapf(ErrInvalidConfig, "target_enemies %d exceeds max_enemies %d",
			c.World.TargetEnemies, c.World.MaxEnemies)
	case c.World.Width <= 0 || c.World.Height <= 0:
		return errors.Wrap(ErrInvalidConfig, "world size must be positive")
	case c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom:
		return errors.Wrapf(ErrInvalidConfig, "zoom range [%v, %v]", c.Camera.MinZoom, c.Camera.MaxZoom)
	case c.Camera.Smoothing <= 0 || c.Camera.Smoothing > 1:
		return errors.Wrapf(ErrInvalidConfig, "camera smoothing %v", c.Camera.Smoothing)
	case c.AI.ChaseExitFactor < 1 || c.AI.AttackExitFactor < 1:
		return errors.Wrap(ErrInvalidConfig, "exit factors below 1 remove the hysteresis band")
	case c.AI.PetFollowMin > c.AI.PetFollowMax:
		return errors.Wrap(ErrInvalidConfig, "pet_follow_min exceeds pet_follow_max")
	case c.Spectator.Enabled && c.Spectator.Interval <= 0:
		return errors.Wrap(ErrInvalidConfig, "spectator interval must be positive")
	}
	return nil
}
