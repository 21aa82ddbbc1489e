package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PipelineValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.Scan.PoolSize)
	assert.Equal(t, 10*time.Second, cfg.Staging.InitialDelay)
	assert.Equal(t, 30*time.Second, cfg.Staging.Delay)
	assert.Equal(t, 15*time.Second, cfg.Scan.InitialDelay)
	assert.Equal(t, 45*time.Second, cfg.Scan.Delay)
	assert.Equal(t, []string{"tmdb", "omdb"}, cfg.Scan.MovieSources)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
database:
  path: /tmp/test.db
scan:
  pool_size: 8
  delay: 2m
  movie_sources: [omdb]
staging:
  initial_delay: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("MEDIASCAN_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Scan.PoolSize)
	assert.Equal(t, 2*time.Minute, cfg.Scan.Delay)
	assert.Equal(t, []string{"omdb"}, cfg.Scan.MovieSources)
	assert.Equal(t, time.Second, cfg.Staging.InitialDelay)
	assert.Equal(t, 30*time.Second, cfg.Staging.Delay)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_FixesOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Scan.PoolSize = 0
	cfg.Scan.QueueCapacity = -1
	cfg.Scan.PollInterval = 0
	cfg.Staging.Delay = 0
	cfg.Staging.MaxAttempts = 0

	cfg.Validate()

	assert.Equal(t, 5, cfg.Scan.PoolSize)
	assert.Equal(t, 100, cfg.Scan.QueueCapacity)
	assert.Equal(t, time.Second, cfg.Scan.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Staging.Delay)
	assert.Equal(t, 3, cfg.Staging.MaxAttempts)
}

func TestWriteExample_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteExample(f))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "delay: 30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Staging, cfg.Staging)
	assert.Equal(t, want.Scan, cfg.Scan)
}
