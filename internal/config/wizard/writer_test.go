package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulscript/notionkit/internal/config"
)

func TestWriteConfig_MinimalOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), config.DefaultConfigFilename)

	cfg := BuildConfig(&Result{
		ParentPageID: "0123456789abcdef0123456789abcdef",
		StoreBackend: config.StoreRedis,
		RedisAddr:    "redis:6379",
		Concurrency:  config.DefaultConcurrency,
	})
	cfg.Notion.Token = "must-not-be-written"

	require.NoError(t, WriteConfig(cfg, outputPath, false))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	s := string(content)

	assert.Contains(t, s, "# notionkit configuration")
	assert.Contains(t, s, "Output mode: minimal")
	assert.Contains(t, s, "parentPageId: 01234567-89ab-cdef-0123-456789abcdef")
	assert.Contains(t, s, "backend: redis")
	assert.NotContains(t, s, "concurrency:")
	assert.NotContains(t, s, "must-not-be-written")

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteConfig_FullOutputLoads(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	cfg := BuildConfig(&Result{ParentPageID: "0123456789abcdef0123456789abcdef", Concurrency: 2})

	require.NoError(t, WriteConfig(cfg, outputPath, true))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Output mode: full")
	assert.Contains(t, string(content), "apiVersion: \"2022-06-28\"")

	for _, v := range []string{config.EnvConcurrency, config.EnvStoreBackend, config.EnvParentPageID} {
		t.Setenv(v, "")
	}
	loaded, err := config.Load(outputPath)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Concurrency)
	assert.Equal(t, cfg.ParentPageID, loaded.ParentPageID)
}

func TestConfirmOverwrite_Injected(t *testing.T) {
	orig := confirmOverwrite
	defer func() { confirmOverwrite = orig }()

	confirmOverwrite = func(string) (bool, error) { return true, nil }
	ok, err := ConfirmOverwrite("x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0600))
	assert.True(t, FileExists(path))
}
