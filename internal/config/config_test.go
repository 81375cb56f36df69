package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "hi6h-neyh", cfg.DataSF.BlockfaceDataset)
	assert.Equal(t, 50000, cfg.DataSF.PageSize)
	assert.Equal(t, 60*time.Second, cfg.DataSF.Timeout)
	assert.Equal(t, 5*time.Second, cfg.DataSF.RetryDelay)
	assert.Equal(t, 3, cfg.DataSF.MaxRetries)
	assert.Equal(t, "weekly", cfg.Schedule.Frequency)
	assert.Equal(t, 3, cfg.Schedule.Hour)
	assert.False(t, cfg.Redis.Enabled)
	assert.NotEmpty(t, cfg.Data.SettingsPath)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "LOG_LEVEL=debug\nSCHEDULE_FREQUENCY=Daily\nSCHEDULE_HOUR=0\nDATASF_APP_TOKEN=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DATASF_APP_TOKEN", "from-env")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "daily", cfg.Schedule.Frequency)
	assert.Equal(t, 0, cfg.Schedule.Hour)
	assert.Equal(t, "from-env", cfg.DataSF.AppToken)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadFrom_RejectsBadScheduleHour(t *testing.T) {
	t.Setenv("SCHEDULE_HOUR", "25")
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{Rules: RulesConfig{TimeZone: "Not/AZone"}}
	assert.Equal(t, time.UTC, cfg.Location())
}
