package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5173", cfg.Server.URL)
	assert.Equal(t, 5173, cfg.Server.Port)
	assert.Equal(t, "logs", cfg.Paths.Logs)
	assert.Equal(t, ".env", cfg.Paths.EnvFile)
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.PollInterval())
	assert.Equal(t, time.Second, cfg.Poll.PerAttemptTimeout())
	assert.Equal(t, 30*time.Second, cfg.Poll.OverallTimeout())
	assert.True(t, cfg.Health.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Health.Interval())
	assert.False(t, cfg.Launcher.NoTray)
	assert.False(t, cfg.Launcher.NonInteractive)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TISSAIA_SERVER_URL", "http://localhost:9999")
	t.Setenv("TISSAIA_POLL_TIMEOUT_SEC", "5")
	t.Setenv("TISSAIA_LAUNCHER_NO_TRAY", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.Poll.OverallTimeout())
	assert.True(t, cfg.Launcher.NoTray)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tissaia.yaml")
	content := `
server:
  url: http://localhost:4000
  port: 4000
poll:
  interval_ms: 250
launcher:
  non_interactive: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000", cfg.Server.URL)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.PollInterval())
	assert.True(t, cfg.Launcher.NonInteractive)
	// Unspecified values keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Poll.OverallTimeout())
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
