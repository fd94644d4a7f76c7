package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soulscript/notionkit/internal/provisioning"
)

func finished(step string, state provisioning.StepState, msg string) provisioning.StepStatus {
	start := time.Now().Add(-2 * time.Second)
	end := start.Add(1500 * time.Millisecond)
	return provisioning.StepStatus{Step: step, State: state, Message: msg, StartedAt: start, FinishedAt: &end}
}

func loading(step, msg string) provisioning.StepStatus {
	return provisioning.StepStatus{Step: step, State: provisioning.StateLoading, Message: msg, StartedAt: time.Now()}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0s"},
		{1500 * time.Millisecond, "1.5s"},
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestNewSetupModel_Stages(t *testing.T) {
	m := NewSetupModel("parent", false)
	if len(m.Stages) != 5 {
		t.Fatalf("expected 5 stages, got %d", len(m.Stages))
	}
	if m.Stages[0] != provisioning.StageConnectivity || m.Stages[4] != provisioning.StageCompletion {
		t.Errorf("unexpected stage order: %v", m.Stages)
	}

	m = NewSetupModel("", true)
	if len(m.Stages) != 1 {
		t.Errorf("test-only run should have 1 stage, got %d", len(m.Stages))
	}
}

func TestCalculateProgress(t *testing.T) {
	m := NewSetupModel("parent", false)
	if p := calculateProgress(m); p != 0 {
		t.Errorf("expected 0, got %v", p)
	}

	m.Steps = []provisioning.StepStatus{
		finished("Connectivity", provisioning.StateSuccess, "ok"),
		finished("DatabaseCreation", provisioning.StateSuccess, "ok"),
		loading("Documentation", "Creating documentation pages"),
	}
	if p := calculateProgress(m); p < 0.39 || p > 0.41 {
		t.Errorf("expected ~0.4, got %v", p)
	}

	m.Done = true
	if p := calculateProgress(m); p != 1.0 {
		t.Errorf("expected 1.0, got %v", p)
	}
}

func TestModelUpdate_Steps(t *testing.T) {
	m := NewSetupModel("parent", false)
	steps := []provisioning.StepStatus{loading("Connectivity", "Checking connection")}

	updated, cmd := m.Update(StepsMsg{Steps: steps})
	if cmd != nil {
		t.Error("expected no command for a steps message")
	}
	um := updated.(Model)
	if len(um.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(um.Steps))
	}
	if cur, ok := um.current(); !ok || cur.Step != "Connectivity" {
		t.Errorf("expected Connectivity in progress, got %+v", cur)
	}
}

func TestModelUpdate_Done(t *testing.T) {
	m := NewSetupModel("parent", false)
	res := &provisioning.Result{Workspace: provisioning.Workspace{IssuesDatabaseID: "db-1"}}

	updated, cmd := m.Update(DoneMsg{Result: res})
	um := updated.(Model)
	if !um.Done || um.Result != res {
		t.Error("expected model to be done with the result")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModelUpdate_Err(t *testing.T) {
	m := NewSetupModel("parent", false)
	updated, _ := m.Update(ErrMsg{Err: errors.New("boom")})
	um := updated.(Model)
	if um.Err == nil {
		t.Fatal("expected error to be set")
	}
	if !strings.Contains(um.View(), "Error: boom") {
		t.Error("expected error in header")
	}
}

func TestModelUpdate_QuitCancels(t *testing.T) {
	m := NewSetupModel("parent", false)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !updated.(Model).Cancelled {
		t.Error("expected cancelled")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestRenderView_Stages(t *testing.T) {
	m := NewSetupModel("parent-page", false)
	m.Steps = []provisioning.StepStatus{
		finished("Connectivity", provisioning.StateSuccess, `Connected to workspace "Acme" as bot`),
		loading("DatabaseCreation", "Creating databases"),
	}

	view := renderView(m)
	for _, want := range []string{"workspace setup", "parent-page", "Connectivity", "Connected to workspace", "DatabaseCreation", "SampleData", "q: cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRenderView_FailedItemsAndWorkspace(t *testing.T) {
	m := NewSetupModel("parent", false)
	m.Steps = []provisioning.StepStatus{
		finished("Connectivity", provisioning.StateSuccess, "ok"),
		finished("DatabaseCreation", provisioning.StateSuccess, "Created 3 databases"),
		finished("Documentation", provisioning.StateSuccess, "Created 2 of 3 documentation pages"),
		finished("Documentation: API Documentation", provisioning.StateError, "status 500"),
	}
	m.Done = true
	m.Result = &provisioning.Result{Workspace: provisioning.Workspace{IssuesDatabaseID: "db-issues"}}

	view := renderView(m)
	for _, want := range []string{"Failed Items", "Documentation: API Documentation", "Ready with failures", "Workspace", "db-issues", "missing"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRenderView_TestOnly(t *testing.T) {
	view := renderView(NewSetupModel("", true))
	if !strings.Contains(view, "connection test") {
		t.Error("expected connection test title")
	}
	if strings.Contains(view, "DatabaseCreation") {
		t.Error("test-only run should not list database creation")
	}
}

func TestFormatStep(t *testing.T) {
	tests := []struct {
		st   provisioning.StepStatus
		want string
	}{
		{loading("Connectivity", "Checking connection"), "[..] Connectivity: Checking connection"},
		{finished("Connectivity", provisioning.StateSuccess, "ok"), "[OK] Connectivity: ok (1.5s)"},
		{finished("SampleData: Task", provisioning.StateError, "bad"), "[!!] SampleData: Task: bad (1.5s)"},
	}
	for _, tt := range tests {
		if got := FormatStep(tt.st); got != tt.want {
			t.Errorf("FormatStep() = %q, want %q", got, tt.want)
		}
	}
}

func TestFollow(t *testing.T) {
	tracker := provisioning.NewTracker()
	var buf bytes.Buffer
	stop := Follow(tracker, &buf)

	tracker.Begin("Connectivity", "Checking connection")
	if err := tracker.Resolve(provisioning.StateSuccess, "Connected"); err != nil {
		t.Fatal(err)
	}
	tracker.Begin("DatabaseCreation", "Creating databases")
	if err := tracker.Resolve(provisioning.StateError, "denied"); err != nil {
		t.Fatal(err)
	}
	stop()
	stop()

	out := buf.String()
	for _, want := range []string{"[OK] Connectivity: Connected", "[!!] DatabaseCreation: denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Count(out, "[OK] Connectivity") != 1 {
		t.Errorf("expected each resolution printed once, got:\n%s", out)
	}
}
