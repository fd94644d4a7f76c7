package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulscript/notionkit/internal/schema"
	ntest "github.com/soulscript/notionkit/internal/testing"
)

func TestArchive(t *testing.T) {
	env := newTestEnv(t, true)
	env.setup(t)
	pages := env.fake.Pages(env.handle(t).ID(schema.KeyIssues))
	require.NotEmpty(t, pages)
	target := pages[0].ID

	var err error
	out := captureOutput(func() {
		err = Archive(ntest.TestContext(t), env.configPath, []string{target})
	})

	require.NoError(t, err)
	assert.Contains(t, out, "archived "+target)
	page, ok := env.fake.Page(target)
	require.True(t, ok)
	assert.True(t, page.Archived)

	// Archived entries drop out of queries.
	out, err = runQuery(t, QueryOptions{ConfigPath: env.configPath, Database: "issues"})
	require.NoError(t, err)
	assert.Contains(t, out, "Issues & Bugs (0)")
}

func TestArchive_ContinuesAfterFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.setup(t)
	target := env.fake.Pages(env.handle(t).ID(schema.KeyTasks))[0].ID
	missing := uuid.NewString()

	var err error
	out := captureOutput(func() {
		err = Archive(ntest.TestContext(t), env.configPath, []string{missing, target})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.Contains(t, out, "failed   "+missing)
	page, _ := env.fake.Page(target)
	assert.True(t, page.Archived)
}

func TestArchive_InvalidInput(t *testing.T) {
	env := newTestEnv(t, true)

	err := Archive(ntest.TestContext(t), env.configPath, nil)
	require.Error(t, err)

	err = Archive(ntest.TestContext(t), env.configPath, []string{"not-a-page"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page")
	assert.Empty(t, env.fake.Calls())
}
