package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 8*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(10), cfg.LowStockThreshold)
	assert.Equal(t, 24.0, cfg.ComplaintWarningHours)
	assert.Zero(t, cfg.NotifyInterval)
	assert.Equal(t, "reports", cfg.ReportPrefix)
	assert.Equal(t, 5*time.Minute, cfg.ExportTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/crm-test.db")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("COMPLAINT_WARNING_HOURS", "1.5")
	t.Setenv("NOTIFY_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/crm-test.db", cfg.SQLitePath)
	assert.Equal(t, int64(3), cfg.LowStockThreshold)
	assert.Equal(t, 1.5, cfg.ComplaintWarningHours)
	assert.Equal(t, 5*time.Minute, cfg.NotifyInterval)
}
