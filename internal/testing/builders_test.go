package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulscript/notionkit/internal/config"
)

func TestConfigBuilder_Immutable(t *testing.T) {
	base := NewConfigBuilder()
	withParent := base.WithParent("p").WithConcurrency(5)

	assert.Empty(t, base.Build().ParentPageID)
	assert.Equal(t, config.DefaultConcurrency, base.Build().Concurrency)
	assert.Equal(t, "p", withParent.Build().ParentPageID)
	assert.Equal(t, 5, withParent.Build().Concurrency)
}

func TestConfigBuilder_Write(t *testing.T) {
	ClearEnv(t)
	dir := t.TempDir()
	path := NewConfigBuilder().WithAPIURL("http://127.0.0.1:1").WithFileStore(dir).Write(t, dir)

	_, err := os.Stat(path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1", cfg.Notion.APIURL)
	assert.Equal(t, config.StoreFile, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "workspace.yaml"), cfg.Store.File)
}

func TestMinimalConfig_Valid(t *testing.T) {
	require.NoError(t, MinimalConfig().Validate())
}
