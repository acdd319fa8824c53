// Package config describes the geometry of a simulation run: core
// count, cache size, memory size, and word size. It is grounded on the
// teacher's Config/ValidateConfig/GetPredefinedConfigs trio
// (models.go, config_validator.go, soc_configs.go), trimmed from a
// NoC topology/latency config down to the handful of knobs spec.md's
// Memory/Cache/System actually take.
package config

import (
	"errors"
	"fmt"
)

// Default geometry, used by Validate to fill in zero fields.
const (
	DefaultLinesPerCache = 64
	DefaultWordSize      = 4
	DefaultWords         = 1024
)

// Config is the geometry handed to system.New.
type Config struct {
	Cores    int `json:"cores"`
	LinesPer int `json:"lines_per_cache"`
	Words    int `json:"words"`
	WordSize int `json:"word_size"`
}

// Validate applies structural checks and populates defaults, mirroring
// the teacher's ValidateConfig: mutate in place, return an error only
// for values that cannot be defaulted away.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Cores <= 0 {
		return fmt.Errorf("cores must be positive, got %d", cfg.Cores)
	}

	if cfg.LinesPer <= 0 {
		cfg.LinesPer = DefaultLinesPerCache
	}
	if cfg.WordSize <= 0 {
		cfg.WordSize = DefaultWordSize
	}
	if cfg.Words <= 0 {
		cfg.Words = DefaultWords
	}
	return nil
}
