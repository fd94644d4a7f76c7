package provisioning

import (
	"context"

	"github.com/go-logr/logr"
)

// Context wraps all dependencies and state needed for a provisioning stage.
type Context struct {
	context.Context
	Client   ResourceClient
	ParentID string
	Options  Options
	State    *State
	Tracker  *Tracker
	Observer Observer
}

// NewContext creates a provisioning context. A nil tracker or observer is
// replaced with a fresh tracker or a discarding observer.
func NewContext(ctx context.Context, client ResourceClient, parentID string, opts Options, tracker *Tracker, observer Observer) *Context {
	if tracker == nil {
		tracker = NewTracker()
	}
	if observer == nil {
		observer = NewLogObserver(logr.Discard())
	}
	return &Context{
		Context:  ctx,
		Client:   client,
		ParentID: parentID,
		Options:  opts,
		State:    NewState(opts.Existing),
		Tracker:  tracker,
		Observer: observer,
	}
}
