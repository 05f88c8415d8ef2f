package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-contact/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contact.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
env: development
extract:
  timeout: 80ms
  job_titles:
    - Staff Engineer
    - Engineer
cache:
  enabled: true
  redis:
    mode: cluster
    addrs: [10.0.0.1:6379, 10.0.0.2:6379]
metrics:
  addr: 127.0.0.1:9100
`)

	cfg, err := config.Load(config.WithEnvPrefix(testPrefix), config.WithFile(path))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 80*time.Millisecond, cfg.Extract.Timeout)
	assert.Equal(t, []string{"Staff Engineer", "Engineer"}, cfg.Extract.JobTitles)
	assert.Equal(t, 8, cfg.Extract.MaxConcurrency, "keys absent from the file keep defaults")
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"10.0.0.1:6379", "10.0.0.2:6379"}, cfg.Cache.Redis.Addrs)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)
}

func TestLoad_FilePrecedence(t *testing.T) {
	path := writeFile(t, "extract:\n  max_concurrency: 4\n  timeout: 80ms\n")
	t.Setenv(testPrefix+"EXTRACT_MAX_CONCURRENCY", "16")

	cfg, err := config.Load(
		config.WithEnvPrefix(testPrefix),
		config.WithFile(path),
		config.WithOverrides(map[string]any{"extract.timeout": "40ms"}),
	)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Extract.MaxConcurrency)
	assert.Equal(t, 40*time.Millisecond, cfg.Extract.Timeout)
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := config.Load(config.WithEnvPrefix(testPrefix), config.WithFile(filepath.Join(t.TempDir(), "absent.yaml")))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := config.Load(config.WithEnvPrefix(testPrefix), config.WithFile(writeFile(t, "extract: [unclosed")))
		require.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := config.Load(config.WithEnvPrefix(testPrefix), config.WithFile(writeFile(t, "extract:\n  timout: 1s\n")))
		require.ErrorIs(t, err, config.ErrInvalid)
		assert.Contains(t, err.Error(), `"extract.timout"`)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := config.Load(config.WithEnvPrefix(testPrefix), config.WithFile(writeFile(t, "env: staging\n")))
		require.ErrorIs(t, err, config.ErrInvalid)
	})
}
