package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quizkeeper/internal/common"
	"github.com/dmitrijs2005/quizkeeper/internal/cryptox"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	var c Config
	c.LoadDefaults()

	assert.Equal(t, filepath.Join("/home/tester", ".quizkeeper", "vault.db"), c.DatabasePath)
	assert.Equal(t, 250*time.Millisecond, c.SaveDelay)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, uint(1), c.RetryAttempts)
	assert.Equal(t, cryptox.DefaultIterations, c.KDFIterations)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultSaveDelay, cfg.SaveDelay)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, t.TempDir(), "cfg.json", map[string]any{
		"database_path": "/from/json.db",
		"save_delay":    "1s",
		"log_level":     "info",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "/from/json.db", cfg.DatabasePath)
	assert.Equal(t, time.Second, cfg.SaveDelay)
	assert.Equal(t, "debug", cfg.LogLevel, "flags override JSON")
	assert.Equal(t, uint(DefaultRetryAttempts), cfg.RetryAttempts, "absent keys keep defaults")
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]string{"-l", "verbose"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "log_level")

	_, err = LoadConfig([]string{"-r", "0"})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()

	c.KDFIterations = 10
	err := c.Validate()
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "kdf_iterations")

	c.LoadDefaults()
	c.DatabasePath = ""
	require.ErrorIs(t, c.Validate(), common.ErrValidation)

	c.LoadDefaults()
	c.SaveDelay = -time.Second
	require.ErrorIs(t, c.Validate(), common.ErrValidation)
}
