package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/quizkeeper/internal/flagx"
	"github.com/dmitrijs2005/quizkeeper/internal/timex"
)

// JSONConfig is the on-disk form. Pointer fields distinguish absent keys
// from zero values so a partial file only overrides what it names.
type JSONConfig struct {
	DatabasePath  *string         `json:"database_path"`
	SaveDelay     *timex.Duration `json:"save_delay"`
	LogLevel      *string         `json:"log_level"`
	RetryAttempts *uint           `json:"retry_attempts"`
	KDFIterations *int            `json:"kdf_iterations"`
}

// parseJSON overlays cfg with the file named by -c/-config. No flag, no-op.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.SaveDelay != nil {
		cfg.SaveDelay = jc.SaveDelay.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.KDFIterations != nil {
		cfg.KDFIterations = *jc.KDFIterations
	}
	return nil
}
