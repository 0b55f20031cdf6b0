package engine

import (
	"fmt"
	"time"

	"scene-manager/internal/domain"
	"scene-manager/internal/history"
	"scene-manager/internal/systems"

	"github.com/caarlos0/env/v11"
)

// Config holds the panel service startup parameters.
type Config struct {
	Port         string        `env:"PANEL_PORT" envDefault:"8080"`
	TickInterval time.Duration `env:"PANEL_TICK_INTERVAL" envDefault:"100ms"`

	// Epsilon is the absolute floor of the approximate axis compare.
	Epsilon float64 `env:"PANEL_EPSILON" envDefault:"1.1920929e-7"`

	// ApplyMode selects whole-vector or per-axis delta detection.
	ApplyMode string `env:"PANEL_APPLY_MODE" envDefault:"whole"`

	HistoryDepth int `env:"PANEL_HISTORY_DEPTH" envDefault:"256"`

	// ScenePath is an optional HCL file seeding the host scene.
	ScenePath   string `env:"PANEL_SCENE"`
	SnapshotDir string `env:"PANEL_SNAPSHOT_DIR" envDefault:"snapshots"`

	// DemoSeed seeds the generated scene used when ScenePath is empty.
	DemoSeed int64 `env:"PANEL_DEMO_SEED" envDefault:"1"`
}

// NewConfig returns the defaults without reading the environment.
func NewConfig() Config {
	return Config{
		Port:         "8080",
		TickInterval: 100 * time.Millisecond,
		Epsilon:      domain.Float32Epsilon,
		ApplyMode:    systems.ApplyWholeVector.String(),
		HistoryDepth: history.DefaultDepth,
		SnapshotDir:  "snapshots",
		DemoSeed:     1,
	}
}

// LoadConfig reads PANEL_* variables on top of the defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	}
	if c.HistoryDepth <= 0 {
		return fmt.Errorf("history depth must be positive, got %d", c.HistoryDepth)
	}
	if _, err := systems.ParseApplyMode(c.ApplyMode); err != nil {
		return err
	}
	return nil
}

// Mode is the parsed ApplyMode. Invalid values fall back to whole-vector.
func (c Config) Mode() systems.ApplyMode {
	m, err := systems.ParseApplyMode(c.ApplyMode)
	if err != nil {
		return systems.ApplyWholeVector
	}
	return m
}
