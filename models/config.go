// Package models defines data structures for transcripts, statistics and configuration.
package models

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// TailPolicy decides what happens to the messages left over when the
// message count is not a multiple of the worker count.
type TailPolicy string

const (
	// TailDistribute hands one extra message to each of the first chunks.
	TailDistribute TailPolicy = "distribute"
	// TailDrop leaves the remainder out of the statistics. Reports produced
	// by older versions of the tool were computed this way.
	TailDrop TailPolicy = "drop"
)

// IsValid returns true if the policy is known.
func (p TailPolicy) IsValid() bool {
	switch p {
	case TailDistribute, TailDrop:
		return true
	}
	return false
}

const DefaultOutput = "out.json"

var ErrInvalidConfig = errors.New("invalid config")

// StatsConfig holds runtime configuration for a gather run.
// Values come from an optional YAML file and are overridden by CLI flags.
type StatsConfig struct {
	Workers  int        `yaml:"workers"`
	Tail     TailPolicy `yaml:"tail"`
	Output   string     `yaml:"output"`
	DBPath   string     `yaml:"db_path"`
	Reuse    bool       `yaml:"reuse"`
	CacheDir string     `yaml:"cache_dir"`
}

// DefaultConfig returns a config with one worker per CPU.
func DefaultConfig() *StatsConfig {
	return &StatsConfig{
		Workers: runtime.NumCPU(),
		Tail:    TailDistribute,
		Output:  DefaultOutput,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// Fields missing from the file keep their defaults.
func LoadConfig(path string) (*StatsConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *StatsConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if !c.Tail.IsValid() {
		return fmt.Errorf("%w: unknown tail policy %q", ErrInvalidConfig, c.Tail)
	}
	return nil
}
