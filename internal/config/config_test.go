package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

// clearEnv unsets console variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"EDUPLAY_API_URL", "EDUPLAY_FORMAT", "EDUPLAY_LOG_LEVEL", "EDUPLAY_MOCK_TOKEN_TTL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.URL)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 24*time.Hour, cfg.MockServer.TokenTTL)
	assert.True(t, cfg.MockServer.Seed)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.Error(t, err)

	var ce *conerr.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conerr.ErrCodeConfigLoad, ce.Code)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  url: http://api.example.test/api
output:
  format: json
log:
  level: debug
`), 0o600))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.test/api", cfg.API.URL)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv("EDUPLAY_API_URL", "https://override.test/api")
	cfg, err = Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "https://override.test/api", cfg.API.URL)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.API.URL = "localhost:8000"
	cfg.Output.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)

	var ce *conerr.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conerr.ErrCodeConfigInvalid, ce.Code)
	assert.Contains(t, ce.Message, "api.url")
	assert.Contains(t, ce.Message, "output.format")
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfig, "")

	p, explicit := ResolvePath("", "/home/x/.eduplay")
	assert.Equal(t, filepath.Join("/home/x/.eduplay", FileName), p)
	assert.False(t, explicit)

	p, explicit = ResolvePath("/etc/eduplay.yaml", "/home/x/.eduplay")
	assert.Equal(t, "/etc/eduplay.yaml", p)
	assert.True(t, explicit)

	t.Setenv(EnvConfig, "/tmp/env.yaml")
	p, explicit = ResolvePath("", "/home/x/.eduplay")
	assert.Equal(t, "/tmp/env.yaml", p)
	assert.True(t, explicit)
}

func TestHome(t *testing.T) {
	t.Setenv(EnvHome, "/srv/eduplay")
	h, err := Home()
	require.NoError(t, err)
	assert.Equal(t, "/srv/eduplay", h)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Output.Format = "yaml"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "yaml", loaded.Output.Format)
	assert.Equal(t, cfg.MockServer.ShutdownTimeout, loaded.MockServer.ShutdownTimeout)
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/h", "console.log"), cfg.LogPath("/h"))

	cfg.Log.File = "/var/log/eduplay.log"
	assert.Equal(t, "/var/log/eduplay.log", cfg.LogPath("/h"))
}
