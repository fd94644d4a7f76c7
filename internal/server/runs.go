package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/soulscript/notionkit/internal/provisioning"
)

// runRetention is how long finished runs stay queryable.
const runRetention = time.Hour

type run struct {
	tracker    *provisioning.Tracker
	parentID   string
	startedAt  time.Time
	finishedAt time.Time
}

func (r *run) done() bool { return !r.finishedAt.IsZero() }

// registry tracks runs by id for the poll endpoint.
type registry struct {
	mu   sync.Mutex
	runs map[string]*run
	now  func() time.Time
}

func newRegistry() *registry {
	return &registry{runs: make(map[string]*run), now: time.Now}
}

// start registers a run. An id still in use by an active run is rejected.
func (r *registry) start(id, parentID string, tracker *provisioning.Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, existing := range r.runs {
		if existing.done() && now.Sub(existing.finishedAt) > runRetention {
			delete(r.runs, k)
		}
	}

	if existing, ok := r.runs[id]; ok && !existing.done() {
		return fmt.Errorf("run %s is already in progress", id)
	}
	r.runs[id] = &run{tracker: tracker, parentID: parentID, startedAt: now}
	return nil
}

func (r *registry) finish(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.runs[id]; ok {
		existing.finishedAt = r.now()
	}
}

// runView is a point-in-time copy of a run.
type runView struct {
	ParentID  string
	StartedAt time.Time
	Done      bool
	Steps     []provisioning.StepStatus
}

func (r *registry) get(id string) (runView, bool) {
	r.mu.Lock()
	existing, ok := r.runs[id]
	if !ok {
		r.mu.Unlock()
		return runView{}, false
	}
	view := runView{ParentID: existing.parentID, StartedAt: existing.startedAt, Done: existing.done()}
	tracker := existing.tracker
	r.mu.Unlock()

	view.Steps = tracker.History()
	return view, true
}
