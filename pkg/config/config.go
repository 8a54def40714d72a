package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete optimizer configuration file.
type Config struct {
	Grid       GridConfig       `json:"grid" yaml:"grid"`
	Clustering ClusteringConfig `json:"clustering" yaml:"clustering"`
	Workers    int              `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// GridConfig enumerates the exit-rule search space: per-tier candidate lists
// for level, close fraction and trailing stop, plus stop-loss levels and
// result constraints. Absent tier-2/3 lists disable that tier entirely.
type GridConfig struct {
	Basis           string  `json:"basis" yaml:"basis"`
	StartingCapital float64 `json:"starting_capital" yaml:"starting_capital"`

	TP1Levels    []float64 `json:"tp1_levels" yaml:"tp1_levels"`
	TP2Levels    []float64 `json:"tp2_levels,omitempty" yaml:"tp2_levels,omitempty"`
	TP3Levels    []float64 `json:"tp3_levels,omitempty" yaml:"tp3_levels,omitempty"`
	TP1Fractions []float64 `json:"tp1_fractions" yaml:"tp1_fractions"`
	TP2Fractions []float64 `json:"tp2_fractions,omitempty" yaml:"tp2_fractions,omitempty"`
	TP3Fractions []float64 `json:"tp3_fractions,omitempty" yaml:"tp3_fractions,omitempty"`

	TP1TrailStops []float64 `json:"tp1_trail_stops,omitempty" yaml:"tp1_trail_stops,omitempty"`
	TP2TrailStops []float64 `json:"tp2_trail_stops,omitempty" yaml:"tp2_trail_stops,omitempty"`
	TP3TrailStops []float64 `json:"tp3_trail_stops,omitempty" yaml:"tp3_trail_stops,omitempty"`

	StopLossLevels []float64 `json:"stop_loss_levels" yaml:"stop_loss_levels"`

	// MaxDrawdownPct rejects results whose drawdown is deeper than -X%;
	// MinWinRatePct rejects results below the given win rate. Nil disables
	// the constraint.
	MaxDrawdownPct *float64 `json:"max_drawdown_pct,omitempty" yaml:"max_drawdown_pct,omitempty"`
	MinWinRatePct  *float64 `json:"min_win_rate_pct,omitempty" yaml:"min_win_rate_pct,omitempty"`
}

// ClusteringConfig tunes the behavioral clusterer. The iteration cap and
// convergence tolerance are deliberately configuration, not constants: the
// clustering pass is a documented heuristic.
type ClusteringConfig struct {
	Clusters      int     `json:"clusters" yaml:"clusters"`
	MaxIterations int     `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
}

// Default returns a configuration with the standard search space used when
// no config file is given.
func Default() *Config {
	cfg := &Config{
		Grid: GridConfig{
			Basis:           "margin",
			StartingCapital: 10000,
			TP1Levels:       []float64{25, 50, 75, 100},
			TP1Fractions:    []float64{0.5, 1.0},
			StopLossLevels:  []float64{-25, -50, -75},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 0 // resolved to NumCPU by the worker pool
	}
	if c.Clustering.Clusters <= 0 {
		c.Clustering.Clusters = 4
	}
	if c.Clustering.MaxIterations <= 0 {
		c.Clustering.MaxIterations = 10
	}
	if c.Clustering.Tolerance <= 0 {
		c.Clustering.Tolerance = 0.1
	}
}

// Validate performs structural validation of the search space.
func (c *Config) Validate() error {
	g := &c.Grid
	switch g.Basis {
	case "margin", "premium":
	default:
		return fmt.Errorf("basis must be 'margin' or 'premium', got: %q", g.Basis)
	}
	if g.StartingCapital <= 0 {
		return fmt.Errorf("starting_capital must be positive, got: %f", g.StartingCapital)
	}
	if len(g.TP1Levels) == 0 {
		return fmt.Errorf("tp1_levels is required")
	}
	if len(g.TP1Fractions) == 0 {
		return fmt.Errorf("tp1_fractions is required")
	}
	if len(g.StopLossLevels) == 0 {
		return fmt.Errorf("stop_loss_levels is required")
	}
	for _, sl := range g.StopLossLevels {
		if sl >= 0 {
			return fmt.Errorf("stop loss levels must be negative, got: %f", sl)
		}
	}
	if err := validateTier("tp1", g.TP1Levels, g.TP1Fractions); err != nil {
		return err
	}
	if len(g.TP2Levels) > 0 {
		if err := validateTier("tp2", g.TP2Levels, g.TP2Fractions); err != nil {
			return err
		}
	}
	if len(g.TP3Levels) > 0 {
		if len(g.TP2Levels) == 0 {
			return fmt.Errorf("tp3_levels configured without tp2_levels")
		}
		if err := validateTier("tp3", g.TP3Levels, g.TP3Fractions); err != nil {
			return err
		}
	}
	return nil
}

func validateTier(name string, levels, fractions []float64) error {
	for _, lv := range levels {
		if lv <= 0 {
			return fmt.Errorf("%s_levels must be positive, got: %f", name, lv)
		}
	}
	if len(fractions) == 0 {
		return fmt.Errorf("%s_fractions is required when %s_levels is set", name, name)
	}
	for _, fr := range fractions {
		if fr <= 0 || fr > 1 {
			return fmt.Errorf("%s_fractions must be in (0, 1], got: %f", name, fr)
		}
	}
	return nil
}

// LoadFromFile loads a configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
