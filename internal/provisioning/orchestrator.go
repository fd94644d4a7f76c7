package provisioning

import (
	"context"
	"errors"
	"time"

	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/records"
	"github.com/soulscript/notionkit/internal/schema"
	"github.com/soulscript/notionkit/internal/util/async"
)

// Options tune a provisioning run.
type Options struct {
	// TestOnly stops after the connectivity check.
	TestOnly bool

	// Existing names databases from an earlier run. They are not created
	// again, and pages are looked up by title before being created.
	Existing Workspace

	// Reuse enables the title lookup even without an existing workspace.
	Reuse bool

	// Concurrency bounds parallel items within a stage. Zero means
	// async.DefaultLimit.
	Concurrency int

	// Documents and Samples override the default workspace content.
	Documents []Document
	Samples   []records.Record
}

func (o Options) reuse() bool { return o.Reuse || !o.Existing.IsZero() }

func (o Options) documents() []Document {
	if o.Documents != nil {
		return o.Documents
	}
	return DefaultDocuments()
}

func (o Options) samples() []records.Record {
	if o.Samples != nil {
		return o.Samples
	}
	return DefaultSamples(time.Now())
}

// Result is the outcome of a successful run. Failures lists items of
// non-fatal stages that could not be created.
type Result struct {
	Account       notion.AccountInfo
	Workspace     Workspace
	Documentation []notion.Page
	Samples       []Sample
	Failures      []ItemFailure
}

// Orchestrator runs the provisioning stages against a content service.
type Orchestrator struct {
	client   ResourceClient
	observer Observer
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithObserver sets the event observer.
func WithObserver(o Observer) OrchestratorOption {
	return func(orc *Orchestrator) { orc.observer = o }
}

// NewOrchestrator creates an orchestrator using client for every call.
func NewOrchestrator(client ResourceClient, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{client: client}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Phases returns the stages a run with opts executes, in order.
func Phases(opts Options) []Phase {
	if opts.TestOnly {
		return []Phase{connectivityPhase{}}
	}
	return []Phase{
		connectivityPhase{},
		databasePhase{},
		documentationPhase{},
		samplePhase{},
		completionPhase{},
	}
}

// Run provisions a workspace under parentID, reporting progress on tracker.
// A nil tracker is replaced with a private one.
//
// Connectivity and database failures are fatal and returned; database
// failures come as *PartialProvisioningError. Documentation and sample
// failures are collected in Result.Failures. Cancelling ctx stops the run
// with an error after the current stage is resolved.
//
// The returned Result is non-nil whenever a run was started, even on error,
// and describes what was created before the failure so callers can persist
// the workspace handle and resume.
func (o *Orchestrator) Run(ctx context.Context, parentID string, tracker *Tracker, opts Options) (*Result, error) {
	if parentID == "" && !opts.TestOnly {
		return nil, &schema.ValidationError{Field: "parentLocationId", Reason: "parent page ID is required"}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = async.DefaultLimit
	}

	observer := o.observer
	if observer != nil && parentID != "" {
		observer = observer.WithFields(map[string]string{"parent": parentID})
	}
	pctx := NewContext(ctx, o.client, parentID, opts, tracker, observer)

	runsInProgress.Inc()
	defer runsInProgress.Dec()

	err := RunPhases(pctx, Phases(opts))
	if err != nil {
		recordRun(runResult(err))
	} else {
		recordRun("success")
	}
	return pctx.State.result(), err
}

func runResult(err error) string {
	var partial *PartialProvisioningError
	var authErr *notion.AuthError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.As(err, &authErr):
		return "auth_error"
	case errors.As(err, &partial):
		return "partial"
	default:
		return "error"
	}
}
