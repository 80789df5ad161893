package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"database_path":  "/data/vault.db",
		"save_delay":     int64(2 * time.Second),
		"log_level":      "error",
		"retry_attempts": 4,
		"kdf_iterations": 300000,
	})

	t.Run("loads every field", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJSON(cfg, []string{"-config", full}))

		assert.Equal(t, "/data/vault.db", cfg.DatabasePath)
		assert.Equal(t, 2*time.Second, cfg.SaveDelay)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, uint(4), cfg.RetryAttempts)
		assert.Equal(t, 300000, cfg.KDFIterations)
	})

	t.Run("no flag leaves config unchanged", func(t *testing.T) {
		cfg := &Config{DatabasePath: "keep.db", SaveDelay: 42 * time.Millisecond}
		require.NoError(t, parseJSON(cfg, []string{"-d", "x.db"}))

		assert.Equal(t, "keep.db", cfg.DatabasePath)
		assert.Equal(t, 42*time.Millisecond, cfg.SaveDelay)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJSON(&Config{}, []string{"-c", bad}))
	})

	t.Run("bad duration", func(t *testing.T) {
		p := writeTempJSON(t, dir, "dur.json", map[string]any{"save_delay": "later"})
		require.Error(t, parseJSON(&Config{}, []string{"-c", p}))
	})
}
