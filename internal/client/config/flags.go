package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/quizkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string   path to the SQLite database holding the vault
//	-l string   log level (debug, info, warn, error)
//	-r uint     attempts per language-model request
//	-s int      debounce delay before saving (milliseconds)
//
// Only these flags are considered; see flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-l", "-r", "-s"})

	fs := flag.NewFlagSet("quizkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the vault database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.UintVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "attempts per generation request")
	saveDelay := fs.Int64("s", cfg.SaveDelay.Milliseconds(), "save debounce delay (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.SaveDelay = time.Duration(*saveDelay) * time.Millisecond
	return nil
}
