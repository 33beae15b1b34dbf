package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/productPach/tutorio-backend-sub000/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commonTOML = `version = 1

[debug]
log_level = "debug"
max_logs_to_keep = 3

[postgresql]
host = "db.local"
port = 5433
user = "tutorio"
db_name = "tutorio"

[redis]
host = "cache.local"
port = 6380
`

const workerTOML = `version = 1

[reputation]
window_days = 30
enumeration_batch = 500
queue_batch = 50
concurrency = 5
poll_interval = 10
run_interval = 1440
`

func chdir(t *testing.T, dir string) {
	t.Helper()

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(oldDir))
	})
}

func writeConfigDir(t *testing.T, common, worker string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "common.toml"), []byte(common), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "worker.toml"), []byte(worker), 0o644))
	chdir(t, dir)
}

func TestLoadConfig(t *testing.T) {
	writeConfigDir(t, commonTOML, workerTOML)

	cfg, usedDir, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "config", usedDir)

	assert.Equal(t, "debug", cfg.Common.Debug.LogLevel)
	assert.Equal(t, 3, cfg.Common.Debug.MaxLogsToKeep)
	assert.Equal(t, "db.local", cfg.Common.PostgreSQL.Host)
	assert.Equal(t, 5433, cfg.Common.PostgreSQL.Port)
	assert.Equal(t, "cache.local", cfg.Common.Redis.Host)

	assert.Equal(t, 30, cfg.Worker.Reputation.WindowDays)
	assert.Equal(t, 500, cfg.Worker.Reputation.EnumerationBatch)
	assert.Equal(t, 50, cfg.Worker.Reputation.QueueBatch)
	assert.Equal(t, 5, cfg.Worker.Reputation.Concurrency)
	assert.Equal(t, 10, cfg.Worker.Reputation.PollInterval)
	assert.Equal(t, 1440, cfg.Worker.Reputation.RunInterval)
}

func TestLoadConfigMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := config.LoadConfig()
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestLoadConfigVersionChecks(t *testing.T) {
	t.Run("missing version", func(t *testing.T) {
		writeConfigDir(t, "[debug]\nlog_level = \"info\"\n", workerTOML)

		_, _, err := config.LoadConfig()
		require.ErrorIs(t, err, config.ErrConfigVersionMissing)
	})

	t.Run("version mismatch", func(t *testing.T) {
		writeConfigDir(t, "version = 99\n", workerTOML)

		_, _, err := config.LoadConfig()
		require.ErrorIs(t, err, config.ErrConfigVersionMismatch)
	})
}
