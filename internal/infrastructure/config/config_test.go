package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("parses yaml file", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  port: 9090
  allowed_origins:
    - http://localhost:4000
storage:
  database_path: /tmp/test.db
charges:
  schedule: "0 1 * * *"
observability:
  logging:
    level: debug
    format: json
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, []string{"http://localhost:4000"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "/tmp/test.db", cfg.Storage.DatabasePath)
		assert.Equal(t, "0 1 * * *", cfg.Charges.Schedule)
		assert.Equal(t, "debug", cfg.Observability.Logging.Level)
		assert.Equal(t, "json", cfg.Observability.Logging.Format)
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("RENTDESK_DB_PATH", "/var/data/rentdesk.db")

		path := writeConfigFile(t, `
storage:
  database_path: ${RENTDESK_DB_PATH}
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/var/data/rentdesk.db", cfg.Storage.DatabasePath)
	})

	t.Run("applies defaults for missing fields", func(t *testing.T) {
		path := writeConfigFile(t, `
server:
  port: 9090
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "rentdesk.db", cfg.Storage.DatabasePath)
		assert.Equal(t, "5 0 * * *", cfg.Charges.Schedule)
		assert.Equal(t, "info", cfg.Observability.Logging.Level)
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		assert.Error(t, err)
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("uses defaults when unset", func(t *testing.T) {
		cfg := LoadFromEnv()

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "rentdesk.db", cfg.Storage.DatabasePath)
		assert.Equal(t, "5 0 * * *", cfg.Charges.Schedule)
		assert.Equal(t, "info", cfg.Observability.Logging.Level)
	})

	t.Run("reads environment overrides", func(t *testing.T) {
		t.Setenv("RENTDESK_PORT", "3001")
		t.Setenv("RENTDESK_DB_PATH", "/tmp/override.db")
		t.Setenv("RENTDESK_CHARGE_SCHEDULE", "30 2 * * *")
		t.Setenv("LOG_LEVEL", "warn")

		cfg := LoadFromEnv()

		assert.Equal(t, 3001, cfg.Server.Port)
		assert.Equal(t, "/tmp/override.db", cfg.Storage.DatabasePath)
		assert.Equal(t, "30 2 * * *", cfg.Charges.Schedule)
		assert.Equal(t, "warn", cfg.Observability.Logging.Level)
	})

	t.Run("ignores malformed port", func(t *testing.T) {
		t.Setenv("RENTDESK_PORT", "not-a-number")

		cfg := LoadFromEnv()

		assert.Equal(t, 8080, cfg.Server.Port)
	})
}

func TestLoadOrEnvWithPath(t *testing.T) {
	t.Run("prefers file when present", func(t *testing.T) {
		path := writeConfigFile(t, "server:\n  port: 7070\n")

		cfg := LoadOrEnvWithPath(path)

		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("falls back to env when file missing", func(t *testing.T) {
		t.Setenv("RENTDESK_PORT", "6060")

		cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Equal(t, 6060, cfg.Server.Port)
	})
}
