package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/gridassess/internal/config"
)

func TestNewDefaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "0.0.0.0:8501", cfg.Addr)
	assert.Equal(t, filepath.Join("data", "grid_assessment.db"), cfg.DatabasePath())
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.CleanupInterval)
}

func TestNewPartialOverride(t *testing.T) {
	cfg := config.New(config.Config{Addr: "127.0.0.1:9000"})

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 30, cfg.RetentionDays)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridassess.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: 0.0.0.0:9501\nretention_days: 7\ndebug: true\n",
	), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9501", cfg.Addr)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "backups", cfg.BackupDir)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GRIDASSESS_ADDR", "0.0.0.0:18501")
	t.Setenv("GRIDASSESS_RETENTION_DAYS", "90")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:18501", cfg.Addr)
	assert.Equal(t, 90, cfg.RetentionDays)
}
