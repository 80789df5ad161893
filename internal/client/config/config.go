package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/quizkeeper/internal/cryptox"
	"github.com/dmitrijs2005/quizkeeper/internal/filex"
)

// Config holds runtime settings for the QuizKeeper CLI.
//
// Units: SaveDelay is a time.Duration (e.g. 250*time.Millisecond).
type Config struct {
	DatabasePath  string        `json:"database_path" validate:"required"`
	SaveDelay     time.Duration `json:"save_delay" validate:"min=0,max=1m"`
	LogLevel      string        `json:"log_level" validate:"oneof=debug info warn error"`
	RetryAttempts uint          `json:"retry_attempts" validate:"min=1,max=10"`
	KDFIterations int           `json:"kdf_iterations" validate:"min=1000,max=10000000"`
}

const (
	DefaultSaveDelay     = 250 * time.Millisecond
	DefaultLogLevel      = "warn"
	DefaultRetryAttempts = 1
)

// DefaultDatabasePath is $HOME/.quizkeeper/vault.db, or vault.db in the
// working directory when there is no home directory.
func DefaultDatabasePath() string {
	return filex.HomePath(".quizkeeper", "vault.db")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = DefaultDatabasePath()
	c.SaveDelay = DefaultSaveDelay
	c.LogLevel = DefaultLogLevel
	c.RetryAttempts = DefaultRetryAttempts
	c.KDFIterations = cryptox.DefaultIterations
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config (if any), then the remaining flags. Later sources take
// precedence. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	cfg.DatabasePath = filepath.Clean(cfg.DatabasePath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("db=%s save_delay=%s log=%s retries=%d kdf=%d",
		c.DatabasePath, c.SaveDelay, c.LogLevel, c.RetryAttempts, c.KDFIterations)
}
