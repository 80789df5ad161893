// Package config loads runtime configuration for the QuizKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   path to the vault database
//	-l string   log level
//	-r uint     attempts per generation request
//	-s int      save debounce delay (milliseconds)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "250ms" or
// integer nanoseconds:
//
//	{
//	  "database_path": "/home/me/.quizkeeper/vault.db",
//	  "save_delay": "250ms",
//	  "log_level": "warn",
//	  "retry_attempts": 2,
//	  "kdf_iterations": 250000
//	}
//
// kdf_iterations is not recorded in the vault envelope. Changing it makes an
// existing vault unreadable until it is changed back.
package config
