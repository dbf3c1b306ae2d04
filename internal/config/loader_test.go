package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir and returns the taskwave config dir
// inside it.
func setupTestHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".config", "taskwave")
	require.NoError(t, os.MkdirAll(configDir, 0700))
	return configDir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadWithFile_ValidYAML(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, `server:
  host: 0.0.0.0
  http_port: 9191
  shutdown_timeout: 3s
  rate_limit_rps: 5
logging:
  level: debug
  format: console
tasks:
  seed: empty
  strict_completion: true
events:
  nats_url: nats://127.0.0.1:4222
  token: s3cret
telemetry:
  export_interval: 30s
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, 10, cfg.Server.RateLimitBurst)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, SeedEmpty, cfg.Tasks.Seed)
	assert.True(t, cfg.Tasks.StrictCompletion)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
	assert.Equal(t, "s3cret", cfg.Events.Token.Value())
	assert.Equal(t, 30*time.Second, cfg.Telemetry.ExportInterval.Duration())
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	dir := setupTestHome(t)

	cfg, err := LoadWithFile(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, SeedOnboarding, cfg.Tasks.Seed)
	assert.Equal(t, "taskwave", cfg.Events.SubjectPrefix)
}

func TestLoadWithFile_EnvironmentOverride(t *testing.T) {
	dir := setupTestHome(t)
	path := writeConfig(t, dir, `server:
  http_port: 9090
tasks:
  strict_completion: false
`, 0600)

	t.Setenv("TASKWAVE_SERVER_HTTP_PORT", "7777")
	t.Setenv("TASKWAVE_TASKS_STRICT_COMPLETION", "true")
	t.Setenv("TASKWAVE_EVENTS_SUBJECT_PREFIX", "board")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.True(t, cfg.Tasks.StrictCompletion)
	assert.Equal(t, "board", cfg.Events.SubjectPrefix)
}

func TestLoadWithFile_DefaultPath(t *testing.T) {
	dir := setupTestHome(t)
	writeConfig(t, dir, "server:\n  http_port: 8181\n", 0600)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoadWithFile_Rejections(t *testing.T) {
	t.Run("path outside allowed directories", func(t *testing.T) {
		setupTestHome(t)
		outside := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(outside, []byte("server:\n  http_port: 1\n"), 0600))

		_, err := LoadWithFile(outside)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config path validation failed")
	})

	t.Run("sibling directory with shared prefix", func(t *testing.T) {
		dir := setupTestHome(t)
		sibling := dir + "-evil"
		require.NoError(t, os.MkdirAll(sibling, 0700))

		_, err := LoadWithFile(filepath.Join(sibling, "config.yaml"))
		assert.Error(t, err)
	})

	t.Run("world readable file", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission model differs on windows")
		}
		dir := setupTestHome(t)
		path := writeConfig(t, dir, "server:\n  http_port: 9090\n", 0644)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insecure config file permissions")
	})

	t.Run("file too large", func(t *testing.T) {
		dir := setupTestHome(t)
		big := make([]byte, maxConfigFileSize+1)
		for i := range big {
			big[i] = '#'
		}
		path := writeConfig(t, dir, string(big), 0600)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		dir := setupTestHome(t)
		path := writeConfig(t, dir, "logging:\n  format: xml\n", 0600)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"TASKWAVE_SERVER_HTTP_PORT":        "server.http_port",
		"TASKWAVE_TASKS_WATCH_SEED":        "tasks.watch_seed",
		"TASKWAVE_TELEMETRY_SAMPLING_RATE": "telemetry.sampling_rate",
		"TASKWAVE_DEBUG":                   "debug",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}
