package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Population.Size != 100 || cfg.Population.GenomeLength != 400 {
		t.Errorf("population = %+v", cfg.Population)
	}
	if cfg.Agent.AccelLimit != 5 {
		t.Errorf("accel_limit = %v, want 5", cfg.Agent.AccelLimit)
	}
	if cfg.Derived.StepDelay != 100*time.Millisecond {
		t.Errorf("step delay = %v, want 100ms", cfg.Derived.StepDelay)
	}
	if len(cfg.Arena.Walls) != 2 {
		t.Errorf("walls = %d, want 2", len(cfg.Arena.Walls))
	}
	if cfg.Arena.Start != (PointConfig{X: 0, Y: 380}) || cfg.Arena.Goal != (PointConfig{X: 0, Y: -380}) {
		t.Errorf("start/goal = %+v / %+v", cfg.Arena.Start, cfg.Arena.Goal)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	overlay := "population:\n  size: 12\nagent:\n  step_delay_sec: 0.005\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Population.Size != 12 {
		t.Errorf("size = %d, want 12", cfg.Population.Size)
	}
	if cfg.Population.GenomeLength != 400 {
		t.Errorf("genome_length = %d, want default 400", cfg.Population.GenomeLength)
	}
	if cfg.Derived.StepDelay != 5*time.Millisecond {
		t.Errorf("step delay = %v, want 5ms", cfg.Derived.StepDelay)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero delay", func(c *Config) { c.Agent.StepDelaySec = 0 }, "step_delay_sec"},
		{"empty population", func(c *Config) { c.Population.Size = 0 }, "population.size"},
		{"mutation rate above one", func(c *Config) { c.Population.MutationRate = 1.5 }, "mutation_rate"},
		{"negative tolerance", func(c *Config) { c.Arena.GoalTolerance = -1 }, "goal_tolerance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			cfg.Recompute()
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}

	if err := Defaults().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Defaults()
	cfg.Population.Size = 7
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Population.Size != 7 {
		t.Errorf("size = %d, want 7", loaded.Population.Size)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg did not panic before Init")
		}
	}()
	Cfg()
}
