// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Agent      AgentConfig      `yaml:"agent"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PointConfig is a point in arena coordinates.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// WallConfig is an obstacle rectangle given by two opposite corners.
type WallConfig struct {
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
}

// ArenaConfig describes the playable area. The allowed area is centered on
// the origin; surrounding walls of WallThickness are placed just outside it.
type ArenaConfig struct {
	Width         float64      `yaml:"width"`
	Height        float64      `yaml:"height"`
	WallThickness float64      `yaml:"wall_thickness"`
	Start         PointConfig  `yaml:"start"`
	Goal          PointConfig  `yaml:"goal"`
	GoalTolerance float64      `yaml:"goal_tolerance"` // Won when distance to goal is below this
	Walls         []WallConfig `yaml:"walls"`          // Interior walls
}

// AgentConfig holds motion parameters.
type AgentConfig struct {
	AccelLimit     float64 `yaml:"accel_limit"`
	StepDelaySec   float64 `yaml:"step_delay_sec"`   // Pause between steps
	ClipFraction   float64 `yaml:"clip_fraction"`    // Dead agents stop at this fraction of the way to the wall
	ClipMaxBackoff float64 `yaml:"clip_max_backoff"` // Upper bound on the distance kept from the wall
}

// PopulationConfig holds genetic algorithm parameters.
type PopulationConfig struct {
	Size         int     `yaml:"size"`
	GenomeLength int     `yaml:"genome_length"`
	MutationRate float64 `yaml:"mutation_rate"` // Per-gene replacement probability
	Continuous   bool    `yaml:"continuous"`    // Start the next generation without waiting for a trigger
	Seed         int64   `yaml:"seed"`          // 0 = time-based
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogStats     bool `yaml:"log_stats"`
	ChampionsCSV bool `yaml:"champions_csv"` // Also write the champion genome per generation
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StepDelay time.Duration // Agent.StepDelaySec as a duration
	ScreenW32 float32       // Screen.Width as float32
	ScreenH32 float32       // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StepDelay = time.Duration(c.Agent.StepDelaySec * float64(time.Second))
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// Validate checks ranges and reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena size must be positive, got %vx%v", c.Arena.Width, c.Arena.Height))
	}
	if c.Arena.GoalTolerance <= 0 {
		errs = append(errs, fmt.Errorf("arena.goal_tolerance must be positive, got %v", c.Arena.GoalTolerance))
	}
	if c.Agent.AccelLimit <= 0 {
		errs = append(errs, fmt.Errorf("agent.accel_limit must be positive, got %v", c.Agent.AccelLimit))
	}
	if c.Derived.StepDelay <= 0 {
		errs = append(errs, fmt.Errorf("agent.step_delay_sec must be positive, got %v", c.Agent.StepDelaySec))
	}
	if c.Agent.ClipFraction <= 0 || c.Agent.ClipFraction > 1 {
		errs = append(errs, fmt.Errorf("agent.clip_fraction must be in (0, 1], got %v", c.Agent.ClipFraction))
	}
	if c.Population.Size < 1 {
		errs = append(errs, fmt.Errorf("population.size must be at least 1, got %d", c.Population.Size))
	}
	if c.Population.GenomeLength < 1 {
		errs = append(errs, fmt.Errorf("population.genome_length must be at least 1, got %d", c.Population.GenomeLength))
	}
	if c.Population.MutationRate < 0 || c.Population.MutationRate > 1 {
		errs = append(errs, fmt.Errorf("population.mutation_rate must be in [0, 1], got %v", c.Population.MutationRate))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
