package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `notion:
  requestTimeout: 10s
  tokenFile: /run/secrets/notion
parentPageId: 0123456789abcdef0123456789abcdef
concurrency: 2
store:
  backend: s3
  s3:
    bucket: handles
    region: eu-central-1
server:
  addr: 127.0.0.1:9090
`

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Notion.RequestTimeout)
	assert.Equal(t, "/run/secrets/notion", cfg.Notion.TokenFile)
	assert.Equal(t, DefaultAPIURL, cfg.Notion.APIURL)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.ParentPageID)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, StoreS3, cfg.Store.Backend)
	assert.Equal(t, "handles", cfg.Store.S3.Bucket)
	assert.Equal(t, DefaultS3Prefix, cfg.Store.S3.Prefix)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConcurrency, "5")
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Concurrency)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("concurrency: [1, 2"), 0600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("store:\n  backend: redis\n"), 0600))
	_, err = Load(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultConfigFilename), []byte("concurrency: 4\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFilename, filepath.Base(path))

	clearEnv(t)
	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestSave_OmitsSecrets(t *testing.T) {
	cfg := Default()
	cfg.Notion.Token = "super-secret"
	cfg.Store.Redis.Password = "also-secret"
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)

	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
	assert.NotContains(t, string(data), "also-secret")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	clearEnv(t)
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Notion.RequestTimeout, loaded.Notion.RequestTimeout)
	assert.Empty(t, loaded.Notion.Token)
}
