package provisioning

import (
	"fmt"
	"sync"
	"time"

	"github.com/soulscript/notionkit/internal/schema"
)

// StepState is the lifecycle state of a tracked step.
type StepState string

const (
	StatePending StepState = "pending"
	StateLoading StepState = "loading"
	StateSuccess StepState = "success"
	StateError   StepState = "error"
)

// Terminal reports whether a step in this state is finished.
func (s StepState) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// StepStatus is one entry of the progress log.
type StepStatus struct {
	Step       string     `json:"step" yaml:"step"`
	State      StepState  `json:"state" yaml:"state"`
	Message    string     `json:"message" yaml:"message"`
	StartedAt  time.Time  `json:"startedAt" yaml:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// Tracker is an append-only log of step statuses. Begin appends a loading
// step; Resolve finishes the most recent one. Observers read copies, either
// by polling History or through Subscribe. A Tracker is safe for concurrent
// use.
type Tracker struct {
	mu      sync.Mutex
	steps   []StepStatus
	subs    map[int]chan []StepStatus
	nextSub int
	now     func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		subs: make(map[int]chan []StepStatus),
		now:  time.Now,
	}
}

// Begin appends a loading step.
func (t *Tracker) Begin(step, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.steps = append(t.steps, StepStatus{
		Step:      step,
		State:     StateLoading,
		Message:   message,
		StartedAt: t.now(),
	})
	t.publish()
}

// Resolve sets the final state of the most recent step. Earlier entries are
// never touched.
func (t *Tracker) Resolve(state StepState, message string) error {
	if !state.Terminal() {
		return &schema.ValidationError{Field: "state", Reason: fmt.Sprintf("%q is not a terminal state", state)}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.steps) == 0 {
		return &TrackerEmptyError{}
	}
	finished := t.now()
	last := &t.steps[len(t.steps)-1]
	last.State = state
	last.Message = message
	last.FinishedAt = &finished
	t.publish()
	return nil
}

// History returns a copy of all steps in order.
func (t *Tracker) History() []StepStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Last returns the most recent step.
func (t *Tracker) Last() (StepStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.steps) == 0 {
		return StepStatus{}, false
	}
	return t.steps[len(t.steps)-1], true
}

// Subscribe returns a channel that receives a full snapshot after every
// change, starting with the current history. Delivery is latest-wins: a slow
// reader skips intermediate snapshots and never blocks writers. The returned
// func unsubscribes and closes the channel.
func (t *Tracker) Subscribe() (<-chan []StepStatus, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan []StepStatus, 1)
	t.subs[id] = ch
	if len(t.steps) > 0 {
		ch <- t.snapshot()
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
			close(ch)
		})
	}
}

// publish must be called with t.mu held.
func (t *Tracker) publish() {
	if len(t.subs) == 0 {
		return
	}
	snap := t.snapshot()
	for _, ch := range t.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (t *Tracker) snapshot() []StepStatus {
	out := make([]StepStatus, len(t.steps))
	copy(out, t.steps)
	for i := range out {
		if out[i].FinishedAt != nil {
			f := *out[i].FinishedAt
			out[i].FinishedAt = &f
		}
	}
	return out
}
