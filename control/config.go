package control

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rmera/rsmd/reaction"
	"github.com/rmera/rsmd/vec3"
)

// Config is the JSON-declared run configuration: which acceptance
// algorithm to use and its parameters, the periodic box and cell-grid
// shape, which reaction template files to load, and the cycle-count/seed/
// checkpoint bookkeeping needed to drive a run.
type Config struct {
	Algorithm     string   `json:"algorithm"` // "rate" or "mc"
	Frequency     float64  `json:"reaction_frequency,omitempty"`
	Temperature   float64  `json:"temperature,omitempty"`
	GasConstant   float64  `json:"gas_constant,omitempty"`
	Cells         [3]int   `json:"cells"`
	Dimensions    [3]float64 `json:"dimensions"`
	ReactionFiles []string `json:"reaction_files"`
	Cycles        int      `json:"cycles"`
	Seed          int64    `json:"seed"`
	CheckpointOut string   `json:"checkpoint,omitempty"`
}

// LoadConfig reads and validates a run configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errf(KindNotFound, "reading config %q: %v", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errf(KindMalformed, "parsing config %q: %v", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Algorithm {
	case "rate", "mc":
	default:
		return errf(KindMalformed, "algorithm must be \"rate\" or \"mc\", got %q", cfg.Algorithm)
	}
	if cfg.Cells[0] <= 0 || cfg.Cells[1] <= 0 || cfg.Cells[2] <= 0 {
		return errf(KindMalformed, "cells must be three positive integers, got %v", cfg.Cells)
	}
	if len(cfg.ReactionFiles) == 0 {
		return errf(KindMalformed, "at least one reaction_files entry must be configured")
	}
	return nil
}

// BuildAcceptance constructs the acceptance policy the configuration names.
func (cfg *Config) BuildAcceptance() Acceptance {
	switch cfg.Algorithm {
	case "mc":
		return MetropolisAcceptance{Temperature: cfg.Temperature, GasConstant: cfg.GasConstant}
	default:
		return RateAcceptance{Frequency: cfg.Frequency}
	}
}

// BuildTemplates loads every configured reaction template file.
func (cfg *Config) BuildTemplates() ([]*reaction.ReactionTemplate, error) {
	return reaction.LoadTemplates(cfg.ReactionFiles)
}

// Box returns the configured PBC box as a vec3.Vec.
func (cfg *Config) Box() vec3.Vec {
	return vec3.Vec{X: cfg.Dimensions[0], Y: cfg.Dimensions[1], Z: cfg.Dimensions[2]}
}

func (cfg *Config) String() string {
	return fmt.Sprintf("algorithm=%s cells=%v cycles=%d templates=%d", cfg.Algorithm, cfg.Cells, cfg.Cycles, len(cfg.ReactionFiles))
}
