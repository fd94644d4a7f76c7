package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		EnvAPIURL, EnvAPIVersion, EnvRequestTimeout, EnvConcurrency, EnvToken, EnvTokenFile,
		EnvParentPageID, EnvStoreBackend, EnvRedisAddr, EnvRedisPassword, EnvS3Bucket, EnvServerAddr,
	} {
		t.Setenv(v, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultAPIURL, cfg.Notion.APIURL)
	assert.Equal(t, DefaultAPIVersion, cfg.Notion.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Notion.RequestTimeout)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency must be between"},
		{"too much concurrency", func(c *Config) { c.Concurrency = 11 }, "concurrency must be between"},
		{"negative timeout", func(c *Config) { c.Notion.RequestTimeout = -time.Second }, "requestTimeout must be positive"},
		{"empty api url", func(c *Config) { c.Notion.APIURL = "" }, "apiURL is required"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "etcd" }, `unknown backend "etcd"`},
		{"redis without addr", func(c *Config) { c.Store.Backend = StoreRedis }, "redis.addr is required"},
		{"redis with addr", func(c *Config) {
			c.Store.Backend = StoreRedis
			c.Store.Redis.Addr = "localhost:6379"
		}, ""},
		{"s3 without bucket", func(c *Config) { c.Store.Backend = StoreS3 }, "s3.bucket is required"},
		{"file backend", func(c *Config) { c.Store.Backend = StoreFile }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://localhost:9999/v1")
	t.Setenv(EnvRequestTimeout, "5s")
	t.Setenv(EnvConcurrency, "7")
	t.Setenv(EnvParentPageID, "parent-1")
	t.Setenv(EnvStoreBackend, StoreRedis)
	t.Setenv(EnvRedisAddr, "redis:6379")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "http://localhost:9999/v1", cfg.Notion.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Notion.RequestTimeout)
	assert.Equal(t, 7, cfg.Concurrency)
	assert.Equal(t, "parent-1", cfg.ParentPageID)
	assert.Equal(t, StoreRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
}

func TestApplyEnv_InvalidValuesKeepCurrent(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRequestTimeout, "soon")
	t.Setenv(EnvConcurrency, "many")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, DefaultRequestTimeout, cfg.Notion.RequestTimeout)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
}

func TestResolveToken(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvToken, "  secret-from-env\n")

		cfg := Default()
		tok, err := cfg.ResolveToken()
		require.NoError(t, err)
		assert.Equal(t, "secret-from-env", tok)
	})

	t.Run("from token file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("secret-from-file\n"), 0600))

		cfg := Default()
		cfg.Notion.TokenFile = path
		tok, err := cfg.ResolveToken()
		require.NoError(t, err)
		assert.Equal(t, "secret-from-file", tok)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvToken, "env")
		cfg := Default()
		cfg.Notion.TokenFile = filepath.Join(t.TempDir(), "missing")

		tok, err := cfg.ResolveToken()
		require.NoError(t, err)
		assert.Equal(t, "env", tok)
	})

	t.Run("missing", func(t *testing.T) {
		clearEnv(t)
		_, err := Default().ResolveToken()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("empty file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

		cfg := Default()
		cfg.Notion.TokenFile = path
		_, err := cfg.ResolveToken()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is empty")
	})

	t.Run("unreadable file does not leak contents", func(t *testing.T) {
		clearEnv(t)
		cfg := Default()
		cfg.Notion.TokenFile = filepath.Join(t.TempDir(), "nope")
		_, err := cfg.ResolveToken()
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
