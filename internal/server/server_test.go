package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulscript/notionkit/internal/handlestore"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/schema"
	"github.com/soulscript/notionkit/internal/server"
	ntest "github.com/soulscript/notionkit/internal/testing"
)

const (
	rawParent = "0f6a1c2e11114a2b9c3d5e6f7a8b9c0d"
	parentID  = "0f6a1c2e-1111-4a2b-9c3d-5e6f7a8b9c0d"
)

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	RunID   string `json:"runId"`
	Steps   []provisioning.StepStatus
	Data    *struct {
		Account       notion.AccountInfo      `json:"account"`
		Workspace     *provisioning.Workspace `json:"workspace"`
		Documentation []notion.Page           `json:"documentation"`
		Samples       []provisioning.Sample   `json:"samples"`
	} `json:"data"`
}

func post(t *testing.T, h http.Handler, ctx context.Context, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/notion-setup", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func newServer(t *testing.T, client provisioning.ResourceClient, store handlestore.Store) *server.Server {
	t.Helper()
	return server.New(provisioning.NewOrchestrator(client), store)
}

func TestSetup_Success(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	store := handlestore.NewMemory()
	srv := newServer(t, fake.Client(), store)

	status, resp := post(t, srv.Handler(), ntest.TestContext(t), `{"parentLocationId":"`+rawParent+`"}`)

	require.Equal(t, http.StatusOK, status, resp.Error)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RunID)
	require.NotNil(t, resp.Data)
	require.NotNil(t, resp.Data.Workspace)
	assert.True(t, resp.Data.Workspace.Complete())
	assert.Len(t, resp.Data.Documentation, 3)
	assert.Len(t, resp.Data.Samples, 3)

	require.NotEmpty(t, resp.Steps)
	last := resp.Steps[len(resp.Steps)-1]
	assert.Equal(t, string(provisioning.StageCompletion), last.Step)
	assert.Equal(t, provisioning.StateSuccess, last.State)

	saved, err := store.Load(context.Background(), parentID)
	require.NoError(t, err)
	assert.Equal(t, *resp.Data.Workspace, saved)
}

func TestSetup_RerunDoesNotDuplicate(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	srv := newServer(t, fake.Client(), handlestore.NewMemory())
	body := `{"parentLocationId":"` + rawParent + `"}`

	status, _ := post(t, srv.Handler(), ntest.TestContext(t), body)
	require.Equal(t, http.StatusOK, status)
	status, resp := post(t, srv.Handler(), ntest.TestContext(t), body)
	require.Equal(t, http.StatusOK, status, resp.Error)

	assert.Len(t, fake.Databases(), 3)
	for _, page := range resp.Data.Documentation {
		assert.True(t, page.Reused, page.Title)
	}
}

func TestSetup_TestOnly(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	srv := newServer(t, fake.Client(), handlestore.NewMemory())

	status, resp := post(t, srv.Handler(), ntest.TestContext(t), `{"testOnly":true}`)

	require.Equal(t, http.StatusOK, status, resp.Error)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, fake.Account.ID, resp.Data.Account.ID)
	assert.Nil(t, resp.Data.Workspace)
	require.Len(t, resp.Steps, 1)
	assert.Equal(t, string(provisioning.StageConnectivity), resp.Steps[0].Step)
	assert.Empty(t, fake.Databases())
}

func TestSetup_BadRequests(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	srv := newServer(t, fake.Client(), handlestore.NewMemory())

	tests := map[string]string{
		"missing parent":   `{}`,
		"malformed parent": `{"parentLocationId":"not-an-id"}`,
		"malformed body":   `{"parentLocationId":`,
		"run id too long":  `{"parentLocationId":"` + rawParent + `","runId":"` + strings.Repeat("x", 65) + `"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			status, resp := post(t, srv.Handler(), ntest.TestContext(t), body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
	assert.Empty(t, fake.Calls())
}

func TestSetup_MethodNotAllowed(t *testing.T) {
	srv := newServer(t, ntest.NewFakeNotion(t).Client(), handlestore.NewMemory())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/notion-setup", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	}
}

func TestSetup_LocationLocked(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	store := handlestore.NewMemory()
	srv := newServer(t, fake.Client(), store)

	unlock, err := store.Lock(context.Background(), parentID)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	status, resp := post(t, srv.Handler(), ntest.TestContext(t), `{"parentLocationId":"`+parentID+`"}`)

	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, resp.Error, "already running")
	assert.Empty(t, fake.Calls())
}

func TestSetup_AuthFailure(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	client := notion.NewClient("wrong-secret-value", notion.WithBaseURL(fake.Server.URL))
	srv := newServer(t, client, handlestore.NewMemory())

	status, resp := post(t, srv.Handler(), ntest.TestContext(t), `{"parentLocationId":"`+rawParent+`"}`)

	assert.Equal(t, http.StatusBadGateway, status)
	assert.False(t, resp.Success)
	assert.NotContains(t, resp.Error, "wrong-secret-value")
	require.Len(t, resp.Steps, 1)
	assert.Equal(t, provisioning.StateError, resp.Steps[0].State)
}

func TestSetup_PartialFailureSavesHandle(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	store := handlestore.NewMemory()
	srv := newServer(t, fake.Client(), store)
	tasks, _ := schema.ByKey(schema.KeyTasks)
	fake.Fail(ntest.Fault{Method: http.MethodPost, PathPrefix: "/databases", Title: tasks.Name, Status: http.StatusInternalServerError, Times: 1})
	body := `{"parentLocationId":"` + rawParent + `"}`

	status, resp := post(t, srv.Handler(), ntest.TestContext(t), body)

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, resp.Error, "database creation incomplete")
	saved, err := store.Load(context.Background(), parentID)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.IssuesDatabaseID)
	assert.Empty(t, saved.TasksDatabaseID)

	status, resp = post(t, srv.Handler(), ntest.TestContext(t), body)
	require.Equal(t, http.StatusOK, status, resp.Error)
	assert.Equal(t, saved.IssuesDatabaseID, resp.Data.Workspace.IssuesDatabaseID)
	assert.Len(t, fake.Databases(), 3)
}

func TestSetup_Cancelled(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	srv := newServer(t, fake.Client(), handlestore.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, resp := post(t, srv.Handler(), ctx, `{"parentLocationId":"`+rawParent+`"}`)

	assert.Equal(t, server.StatusClientClosedRequest, status)
	for _, step := range resp.Steps {
		assert.NotEqual(t, provisioning.StateLoading, step.State)
	}
}

type stubRunner struct {
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubRunner) Run(ctx context.Context, _ string, tracker *provisioning.Tracker, _ provisioning.Options) (*provisioning.Result, error) {
	tracker.Begin(string(provisioning.StageConnectivity), "Checking connection")
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	if s.err != nil {
		_ = tracker.Resolve(provisioning.StateError, s.err.Error())
		return &provisioning.Result{}, s.err
	}
	_ = tracker.Resolve(provisioning.StateSuccess, "ok")
	return &provisioning.Result{}, nil
}

func TestSetup_UnexpectedError(t *testing.T) {
	srv := server.New(&stubRunner{err: errors.New("boom")}, handlestore.NewMemory())

	status, resp := post(t, srv.Handler(), ntest.TestContext(t), `{"parentLocationId":"`+rawParent+`"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "boom", resp.Error)
}

func TestSetup_ConcurrentRunsConflict(t *testing.T) {
	runner := &stubRunner{started: make(chan struct{}), release: make(chan struct{})}
	srv := server.New(runner, handlestore.NewMemory())
	body := `{"parentLocationId":"` + rawParent + `","runId":"first"}`

	done := make(chan int, 1)
	go func() {
		status, _ := post(t, srv.Handler(), ntest.TestContext(t), body)
		done <- status
	}()
	<-runner.started

	// Same run id while it is in progress.
	status, resp := post(t, srv.Handler(), ntest.TestContext(t), body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, resp.Error, "already in progress")

	// Different run id against the same location.
	status, resp = post(t, srv.Handler(), ntest.TestContext(t), `{"parentLocationId":"`+rawParent+`","runId":"second"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, resp.Error, "already running")

	// The in-flight run is visible to pollers.
	req := httptest.NewRequest(http.MethodGet, "/api/notion-setup/runs/first", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var run struct {
		Done  bool                      `json:"done"`
		Steps []provisioning.StepStatus `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.False(t, run.Done)
	require.Len(t, run.Steps, 1)
	assert.Equal(t, provisioning.StateLoading, run.Steps[0].State)

	close(runner.release)
	select {
	case status := <-done:
		assert.Equal(t, http.StatusOK, status)
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not finish")
	}
}

func TestGetRun(t *testing.T) {
	fake := ntest.NewFakeNotion(t)
	srv := newServer(t, fake.Client(), handlestore.NewMemory())

	status, _ := post(t, srv.Handler(), ntest.TestContext(t), `{"testOnly":true,"runId":"poll-me"}`)
	require.Equal(t, http.StatusOK, status)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notion-setup/runs/poll-me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"done":true`)
	assert.Contains(t, rec.Body.String(), `"runId":"poll-me"`)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notion-setup/runs/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown run")
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := server.New(&stubRunner{}, handlestore.NewMemory())
	_, _ = post(t, srv.Handler(), ntest.TestContext(t), `{"testOnly":true}`)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notionkit_server_setup_requests_total")
}

func TestStart_StopsOnCancel(t *testing.T) {
	srv := server.New(&stubRunner{}, handlestore.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
