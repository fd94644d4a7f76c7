package handlers

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/handlestore"
	"github.com/soulscript/notionkit/internal/provisioning"
	ntest "github.com/soulscript/notionkit/internal/testing"
)

const (
	rawParent = "0f6a1c2e11114a2b9c3d5e6f7a8b9c0d"
	parentID  = "0f6a1c2e-1111-4a2b-9c3d-5e6f7a8b9c0d"
)

// saveAndRestoreFactories saves and restores the injectable factories and
// makes stdout look like a pipe.
func saveAndRestoreFactories(t *testing.T) {
	origLoadConfigFile := loadConfigFile
	origFindConfigFile := findConfigFile
	origNewContentClient := newContentClient
	origNewHandleStore := newHandleStore
	origIsInteractiveTTY := isInteractiveTTY
	origAskParent := askParent
	origRunSetupTUI := runSetupTUI
	origVerifyRetryOptions := verifyRetryOptions
	origStartServer := startServer
	origLogVerbosity := logVerbosity

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		findConfigFile = origFindConfigFile
		newContentClient = origNewContentClient
		newHandleStore = origNewHandleStore
		isInteractiveTTY = origIsInteractiveTTY
		askParent = origAskParent
		runSetupTUI = origRunSetupTUI
		verifyRetryOptions = origVerifyRetryOptions
		startServer = origStartServer
		logVerbosity = origLogVerbosity
	})

	isInteractiveTTY = func() bool { return false }
}

// testEnv is a fake content service plus a config file using a file
// handle store, with the fake's token exported.
type testEnv struct {
	fake       *ntest.FakeNotion
	dir        string
	configPath string
}

func newTestEnv(t *testing.T, withParent bool) *testEnv {
	t.Helper()
	saveAndRestoreFactories(t)
	ntest.ClearEnv(t)
	t.Setenv(config.EnvToken, ntest.FakeToken)

	fake := ntest.NewFakeNotion(t)
	dir := t.TempDir()
	b := ntest.NewConfigBuilder().WithFake(fake).WithFileStore(dir)
	if withParent {
		b = b.WithParent(rawParent)
	}
	return &testEnv{fake: fake, dir: dir, configPath: b.Write(t, dir)}
}

// handle returns the workspace handle stored for parentID.
func (e *testEnv) handle(t *testing.T) provisioning.Workspace {
	t.Helper()
	ws, err := handlestore.NewFile(filepath.Join(e.dir, "workspace.yaml")).Load(ntest.TestContext(t), parentID)
	require.NoError(t, err)
	return ws
}

// setup runs a non-interactive setup and fails the test on error.
func (e *testEnv) setup(t *testing.T) string {
	t.Helper()
	var err error
	out := captureOutput(func() {
		err = Setup(ntest.TestContext(t), SetupOptions{ConfigPath: e.configPath})
	})
	require.NoError(t, err, out)
	return out
}

// captureOutput returns what f prints to stdout.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() { os.Stdout = old }()
	f()

	_ = w.Close()
	return <-done
}
