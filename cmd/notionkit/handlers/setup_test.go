package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/handlestore"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/schema"
	ntest "github.com/soulscript/notionkit/internal/testing"
	"github.com/soulscript/notionkit/internal/ui/tui"
)

func TestSetup_CreatesWorkspaceAndSavesHandle(t *testing.T) {
	env := newTestEnv(t, true)

	out := env.setup(t)

	assert.Contains(t, out, "Workspace ready under "+parentID)
	assert.Contains(t, out, "Issues & Bugs")
	assert.Contains(t, out, "Project Overview")
	assert.Contains(t, out, "Voice input not working on Safari")
	assert.Contains(t, out, string(provisioning.StageCompletion))
	assert.NotContains(t, out, "could not be created")

	assert.Len(t, env.fake.Databases(), 3)
	assert.True(t, env.handle(t).Complete())
}

func TestSetup_RerunReusesWorkspace(t *testing.T) {
	env := newTestEnv(t, true)
	env.setup(t)
	first := env.handle(t)

	out := env.setup(t)

	assert.Contains(t, out, "Resuming workspace: 3 of 3 databases exist")
	assert.Contains(t, out, "(existing)")
	assert.Len(t, env.fake.Databases(), 3)
	assert.Equal(t, first, env.handle(t))
	assert.Len(t, env.fake.Pages(first.ID(schema.KeyIssues)), 1)
}

func TestSetup_PartialFailureResumes(t *testing.T) {
	env := newTestEnv(t, true)
	env.fake.Fail(ntest.Fault{
		Method:     http.MethodPost,
		PathPrefix: "/databases",
		Title:      "Feature Requests",
		Status:     http.StatusInternalServerError,
		Times:      1,
	})

	var err error
	captureOutput(func() {
		err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath})
	})
	require.Error(t, err)
	var partial *provisioning.PartialProvisioningError
	require.ErrorAs(t, err, &partial)

	ws := env.handle(t)
	assert.NotEmpty(t, ws.ID(schema.KeyIssues))
	assert.NotEmpty(t, ws.ID(schema.KeyTasks))
	assert.Empty(t, ws.ID(schema.KeyFeatures))

	out := env.setup(t)
	assert.Contains(t, out, "Resuming workspace: 2 of 3 databases exist")
	assert.Len(t, env.fake.Databases(), 3)

	resumed := env.handle(t)
	assert.True(t, resumed.Complete())
	assert.Equal(t, ws.ID(schema.KeyIssues), resumed.ID(schema.KeyIssues))
}

func TestSetup_TestOnly(t *testing.T) {
	t.Run("with configured parent", func(t *testing.T) {
		env := newTestEnv(t, true)

		var err error
		out := captureOutput(func() {
			err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath, TestOnly: true})
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Connection test passed")
		assert.Contains(t, out, "Connected as notionkit-test")
		assert.Empty(t, env.fake.Databases())
		assert.True(t, env.handle(t).IsZero())
	})

	t.Run("without parent", func(t *testing.T) {
		env := newTestEnv(t, false)

		var err error
		out := captureOutput(func() {
			err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath, TestOnly: true})
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Connection test passed")
	})
}

func TestSetup_NoParentNonInteractive(t *testing.T) {
	env := newTestEnv(t, false)

	err := Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parent page")
	assert.Contains(t, err.Error(), config.EnvParentPageID)
	assert.Empty(t, env.fake.Calls())
}

func TestSetup_InvalidParent(t *testing.T) {
	env := newTestEnv(t, false)

	err := Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath, ParentID: "my project page"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parent page")
}

func TestSetup_InteractivePromptsAndUsesTUI(t *testing.T) {
	env := newTestEnv(t, false)
	isInteractiveTTY = func() bool { return true }

	asked := false
	askParent = func(context.Context) (string, error) {
		asked = true
		return parentID, nil
	}
	tuiUsed := false
	runSetupTUI = func(ctx context.Context, tracker *provisioning.Tracker, parent string, testOnly bool, fn tui.RunFunc) (*provisioning.Result, error) {
		tuiUsed = true
		assert.Equal(t, parentID, parent)
		assert.False(t, testOnly)
		return fn(ctx)
	}

	var err error
	captureOutput(func() {
		err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath})
	})

	require.NoError(t, err)
	assert.True(t, asked)
	assert.True(t, tuiUsed)
	assert.True(t, env.handle(t).Complete())
}

func TestSetup_NoTUIFlag(t *testing.T) {
	env := newTestEnv(t, true)
	isInteractiveTTY = func() bool { return true }
	runSetupTUI = func(context.Context, *provisioning.Tracker, string, bool, tui.RunFunc) (*provisioning.Result, error) {
		t.Error("TUI must not run with --no-tui")
		return nil, errors.New("unexpected")
	}

	var err error
	out := captureOutput(func() {
		err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath, NoTUI: true})
	})

	require.NoError(t, err)
	assert.Contains(t, out, string(provisioning.StageConnectivity))
}

func TestSetup_MissingToken(t *testing.T) {
	env := newTestEnv(t, true)
	t.Setenv(config.EnvToken, "")

	err := Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath})

	require.ErrorIs(t, err, config.ErrNoToken)
	assert.Empty(t, env.fake.Calls())
}

func TestSetup_RejectedTokenIsNotLeaked(t *testing.T) {
	env := newTestEnv(t, true)
	t.Setenv(config.EnvToken, "secret_do_not_print_1234")

	var err error
	out := captureOutput(func() {
		err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath})
	})

	require.Error(t, err)
	var authErr *notion.AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.NotContains(t, err.Error(), "secret_do_not_print_1234")
	assert.NotContains(t, out, "secret_do_not_print_1234")
	assert.True(t, env.handle(t).IsZero())
}

func TestSetup_ParentLocked(t *testing.T) {
	env := newTestEnv(t, true)
	store := handlestore.NewMemory()
	_, err := store.Lock(context.Background(), parentID)
	require.NoError(t, err)
	newHandleStore = func(context.Context, config.StoreConfig) (handlestore.Store, error) {
		return store, nil
	}

	err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
	assert.Empty(t, env.fake.Calls())
}

func TestSetup_HandleStoreError(t *testing.T) {
	env := newTestEnv(t, true)
	newHandleStore = func(context.Context, config.StoreConfig) (handlestore.Store, error) {
		return nil, errors.New("connection refused")
	}

	err := Setup(ntest.TestContext(t), SetupOptions{ConfigPath: env.configPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open handle store")
}

func TestSaveHandle(t *testing.T) {
	ctx := context.Background()
	full := provisioning.Workspace{IssuesDatabaseID: "i", TasksDatabaseID: "t", FeaturesDatabaseID: "f"}

	t.Run("unchanged handle is not written", func(t *testing.T) {
		store := handlestore.NewMemory()
		require.NoError(t, saveHandle(ctx, store, parentID, full, &provisioning.Result{Workspace: full}, nil))

		got, err := store.Load(ctx, parentID)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("partial handle without result", func(t *testing.T) {
		store := handlestore.NewMemory()
		partial := provisioning.Workspace{IssuesDatabaseID: "i"}
		runErr := &provisioning.PartialProvisioningError{Handle: partial, Err: errors.New("boom")}
		require.NoError(t, saveHandle(ctx, store, parentID, provisioning.Workspace{}, nil, runErr))

		got, err := store.Load(ctx, parentID)
		require.NoError(t, err)
		assert.Equal(t, partial, got)
	})

	t.Run("nothing created", func(t *testing.T) {
		store := handlestore.NewMemory()
		require.NoError(t, saveHandle(ctx, store, parentID, provisioning.Workspace{}, &provisioning.Result{}, errors.New("auth")))

		got, err := store.Load(ctx, parentID)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})
}

func TestPrintSetupSummary_Failures(t *testing.T) {
	result := &provisioning.Result{
		Account:   notion.AccountInfo{Name: "bot"},
		Workspace: provisioning.Workspace{IssuesDatabaseID: "i", TasksDatabaseID: "t", FeaturesDatabaseID: "f"},
		Failures: []provisioning.ItemFailure{
			{Stage: provisioning.StageDocumentation, Item: "API Documentation", Err: errors.New("status 500")},
		},
	}

	out := captureOutput(func() { printSetupSummary(parentID, result, false) })

	assert.Contains(t, out, "Connected as bot")
	assert.Contains(t, out, "1 item(s) could not be created")
	assert.Contains(t, out, "API Documentation")
	assert.Contains(t, out, "Run setup again")
}

func TestSetup_AdoptsWorkspaceFromRedis(t *testing.T) {
	env := newTestEnv(t, true)
	mr := miniredis.RunT(t)
	ctx := ntest.TestContext(t)

	ids := env.fake.SeedDatabases(t, parentID, schema.KeyIssues, schema.KeyTasks, schema.KeyFeatures)
	seeded := env.fake.SeedPage(t, ids[schema.KeyIssues], schema.Issues(), "Voice input not working on Safari")

	var ws provisioning.Workspace
	for key, id := range ids {
		ws.Set(key, id)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := handlestore.NewRedis(rdb, config.DefaultRedisPrefix, config.DefaultLockTTL)
	require.NoError(t, store.Save(ctx, parentID, ws))

	path := ntest.NewConfigBuilder().WithFake(env.fake).WithParent(rawParent).WithRedisStore(mr.Addr()).Write(t, t.TempDir())

	var err error
	out := captureOutput(func() {
		err = Setup(ctx, SetupOptions{ConfigPath: path})
	})

	require.NoError(t, err, out)
	assert.Contains(t, out, "Resuming workspace: 3 of 3 databases exist")
	assert.Len(t, env.fake.Databases(), 3)

	issues := env.fake.Pages(ids[schema.KeyIssues])
	require.Len(t, issues, 1)
	assert.Equal(t, seeded, issues[0].ID)

	// The lock is released once the run is over.
	assert.False(t, mr.Exists(config.DefaultRedisPrefix+":lock:"+parentID))
}
