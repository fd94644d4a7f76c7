package provisioning

import (
	"sync"

	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/records"
)

// Stage names a provisioning stage.
type Stage string

const (
	StageConnectivity     Stage = "Connectivity"
	StageDatabaseCreation Stage = "DatabaseCreation"
	StageDocumentation    Stage = "Documentation"
	StageSampleData       Stage = "SampleData"
	StageCompletion       Stage = "Completion"
)

// Sample is a created sample record.
type Sample struct {
	Kind records.Kind `json:"kind" yaml:"kind"`
	Page notion.Page  `json:"page" yaml:"page"`
}

// State holds the shared results of provisioning stages.
// It is progressively populated as each stage completes and is passed
// to subsequent stages that need earlier results.
type State struct {
	mu sync.Mutex

	Account       notion.AccountInfo
	Workspace     Workspace
	Documentation []notion.Page
	Samples       []Sample
	Failures      []ItemFailure
}

// NewState creates a state seeded with an existing, possibly partial,
// workspace.
func NewState(existing Workspace) *State {
	return &State{Workspace: existing}
}

// fail records a non-fatal item failure. Safe to call from concurrent items.
func (s *State) fail(stage Stage, item string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failures = append(s.Failures, ItemFailure{Stage: stage, Item: item, Err: err})
}

// failures returns the failures recorded from index from on.
func (s *State) failures(from int) []ItemFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from >= len(s.Failures) {
		return nil
	}
	return append([]ItemFailure(nil), s.Failures[from:]...)
}

func (s *State) failureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Failures)
}

// result copies the state into a Result.
func (s *State) result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Result{
		Account:       s.Account,
		Workspace:     s.Workspace,
		Documentation: append([]notion.Page(nil), s.Documentation...),
		Samples:       append([]Sample(nil), s.Samples...),
		Failures:      append([]ItemFailure(nil), s.Failures...),
	}
}
