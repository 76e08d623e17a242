package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "./engines.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.Equal(t, 5*time.Second, cfg.PollBackoff())
	assert.Equal(t, 500*time.Millisecond, cfg.SNMPTimeout())
	assert.Empty(t, cfg.Fleet)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
database:
  path: /tmp/test-engines.db
polling:
  interval_seconds: 0.5
  backoff_seconds: 3
snmp:
  timeout_ms: 250
fleet:
  - id: Engine-X
    port: 1711
    base_temperature: 55
    base_rpm: 2100
    base_current: 14
    base_power: 1700
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "/tmp/test-engines.db", cfg.Database.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, 3*time.Second, cfg.PollBackoff())
	assert.Equal(t, 250*time.Millisecond, cfg.SNMPTimeout())

	rows := cfg.FleetSeed()
	require.Len(t, rows, 1)
	assert.Equal(t, "Engine-X", rows[0].ID)
	assert.Equal(t, uint16(1711), rows[0].Port)
	assert.Equal(t, "127.0.0.1", rows[0].Host, "host defaults when omitted")
	assert.Equal(t, "public", rows[0].Community, "community defaults when omitted")
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "listen: \":8080\"\nbogus_key: true\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
polling:
  interval_seconds: -1
  backoff_seconds: 5
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsIncompleteFleetEntry(t *testing.T) {
	path := writeConfig(t, `
fleet:
  - id: Engine-X
    port: 1711
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DB_PATH", "/tmp/override.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
}
