package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, SourceFS, cfg.Catalog.Source)
	assert.Equal(t, "Separate Atoms", cfg.Catalog.Dir)
	assert.Equal(t, "*.svg", cfg.Catalog.Pattern)
	assert.Equal(t, CodecHash, cfg.Registry.Codec)
	assert.Equal(t, 8, cfg.Registry.KeyLength)
	assert.Equal(t, StoreMemory, cfg.Registry.Store)
	assert.Zero(t, cfg.Registry.TTL)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
http:
  addr: ":9090"
  request_timeout: 2s
catalog:
  dir: /srv/assets
registry:
  codec: compact
  ttl: 1h
`), 0o644))

	t.Setenv("AVATAR_HTTP_ADDR", ":7070")
	t.Setenv("AVATAR_HTTP_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "/srv/assets", cfg.Catalog.Dir)
	assert.Equal(t, CodecCompact, cfg.Registry.Codec)
	assert.Equal(t, time.Hour, cfg.Registry.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"codec":      {"AVATAR_REGISTRY_CODEC": "base64"},
		"store":      {"AVATAR_REGISTRY_STORE": "etcd"},
		"key length": {"AVATAR_REGISTRY_KEY_LENGTH": "4"},
		"sql dsn":    {"AVATAR_REGISTRY_STORE": "sql"},
		"gcs bucket": {"AVATAR_CATALOG_SOURCE": "gcs"},
		"source":     {"AVATAR_CATALOG_SOURCE": "s3"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
