package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  base_url: https://example.com\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"post"}, cfg.Source.Targets)
	assert.Equal(t, DefaultAPINamespace, cfg.Source.APINamespace)
	assert.Equal(t, 10, cfg.Source.PerPage)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Runner.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Runner.InitialBackoff)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.HTTP.PublicURL)

	_, ok := cfg.Source.After()
	assert.False(t, ok)
}

func TestParse_ClampsPerPage(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  base_url: https://example.com\n  per_page: 500\n"))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Source.PerPage)

	cfg, err = Parse([]byte("source:\n  base_url: https://example.com\n  per_page: -4\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Source.PerPage)
}

func TestParse_DateLimit(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  base_url: https://example.com\n  date_limit: 2024-02-29\n"))
	require.NoError(t, err)

	after, ok := cfg.Source.After()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), after)

	_, err = Parse([]byte("source:\n  base_url: https://example.com\n  date_limit: 29/02/2024\n"))
	assert.ErrorContains(t, err, "date_limit")
}

func TestParse_RequiresBaseURL(t *testing.T) {
	_, err := Parse([]byte("log_level: debug\n"))
	assert.ErrorContains(t, err, "base_url")
}

func TestParse_UnknownStorageDriver(t *testing.T) {
	_, err := Parse([]byte("source:\n  base_url: https://example.com\nstorage:\n  driver: mongo\n"))
	assert.ErrorContains(t, err, "storage.driver")
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SYNC_SOURCE_URL", "https://source.test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "source:\n  base_url: ${SYNC_SOURCE_URL}\n  targets: [post, page]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://source.test", cfg.Source.BaseURL)
	assert.Equal(t, []string{"post", "page"}, cfg.Source.Targets)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")
}
