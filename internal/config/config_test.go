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
	path := filepath.Join(t.TempDir(), "qparas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvConfig, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30, cfg.Limit)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Equal(t, "none", cfg.Auth.Type)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := writeConfig(t, `
base_url: https://staging.paras.test
timeout_seconds: 5
limit: 10
retry:
  max_attempts: 3
  backoff_seconds: 2
  exclude_errors: [501]
auth:
  type: bearer
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.paras.test", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, RetryConfig{MaxAttempts: 3, Backoff: 2, ExcludeErrors: []int{501}}, cfg.Retry)
	assert.Equal(t, "bearer", cfg.Auth.Type)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvBaseURLWins(t *testing.T) {
	path := writeConfig(t, "base_url: https://file.test\n")
	t.Setenv(EnvBaseURL, "https://env.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.test", cfg.BaseURL)
}

func TestLoadEnvConfigPath(t *testing.T) {
	path := writeConfig(t, "limit: 7\n")
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Limit)
}

func TestLoadMissingFiles(t *testing.T) {
	t.Setenv(EnvBaseURL, "")

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("env-pointed path may be absent", func(t *testing.T) {
		t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "nope.yaml"))
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	})
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv(EnvBaseURL, "")

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "base_url: [unclosed\n"))
		require.Error(t, err)
	})

	t.Run("unknown auth type", func(t *testing.T) {
		_, err := Load(writeConfig(t, "auth:\n  type: kerberos\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported auth type")
	})

	t.Run("bogus exclude code", func(t *testing.T) {
		_, err := Load(writeConfig(t, "retry:\n  exclude_errors: [9000]\n"))
		require.Error(t, err)
	})
}

func TestLoadFloorsInvalidNumbers(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	cfg, err := Load(writeConfig(t, "timeout_seconds: -1\nlimit: 0\nretry:\n  max_attempts: -2\n"))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Limit)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
}
