package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulscript/notionkit/internal/config"
	ntest "github.com/soulscript/notionkit/internal/testing"
)

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	saveAndRestoreFactories(t)
	ntest.ClearEnv(t)
	findConfigFile = func() (string, error) {
		return "", fmt.Errorf("notionkit.yaml not found: %w", os.ErrNotExist)
	}

	cfg, err := loadConfig("")

	require.NoError(t, err)
	assert.Equal(t, config.DefaultAPIURL, cfg.Notion.APIURL)
	assert.Equal(t, config.StoreMemory, cfg.Store.Backend)
}

func TestLoadConfig_FoundFile(t *testing.T) {
	saveAndRestoreFactories(t)
	ntest.ClearEnv(t)
	dir := t.TempDir()
	path := ntest.NewConfigBuilder().WithParent(rawParent).Write(t, dir)
	findConfigFile = func() (string, error) { return path, nil }

	cfg, err := loadConfig("")

	require.NoError(t, err)
	assert.Equal(t, rawParent, cfg.ParentPageID)
}

func TestLoadConfig_Errors(t *testing.T) {
	saveAndRestoreFactories(t)
	ntest.ClearEnv(t)

	t.Run("find error", func(t *testing.T) {
		findConfigFile = func() (string, error) { return "", fmt.Errorf("permission denied") }
		_, err := loadConfig("")
		require.Error(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("concurrency: 99\n"), 0600))
		_, err := loadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}

func TestConnect_TokenFile(t *testing.T) {
	saveAndRestoreFactories(t)
	ntest.ClearEnv(t)
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte(ntest.FakeToken+"\n"), 0600))
	fake := ntest.NewFakeNotion(t)
	path := ntest.NewConfigBuilder().WithFake(fake).WithTokenFile(tokenFile).Write(t, dir)

	_, client, err := connect(path)
	require.NoError(t, err)

	account, err := client.Identity(ntest.TestContext(t))
	require.NoError(t, err)
	assert.Equal(t, fake.Account.ID, account.ID)
}
