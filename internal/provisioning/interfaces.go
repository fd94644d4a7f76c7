package provisioning

import (
	"context"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/records"
	"github.com/soulscript/notionkit/internal/schema"
)

// Phase is one ordered stage of a provisioning run.
type Phase interface {
	// Name returns the stage name recorded in the tracker.
	Name() Stage

	// Describe returns the progress message shown while the stage runs.
	Describe() string

	// Provision executes the stage and returns a summary for the tracker.
	// Item failures that should not stop the run are recorded on
	// ctx.State instead of being returned.
	Provision(ctx *Context) (string, error)
}

// ResourceClient is the subset of the content service client the
// orchestrator needs. *notion.Client implements it.
type ResourceClient interface {
	Identity(ctx context.Context) (notion.AccountInfo, error)
	CreateDatabase(ctx context.Context, parentPageID string, db schema.Database) (string, error)
	CreatePage(ctx context.Context, parentDatabaseID string, p content.Payload) (notion.Page, error)
	CreateRecord(ctx context.Context, databaseID string, rec records.Record) (notion.Page, error)
	QueryDatabase(ctx context.Context, databaseID string, filter any, sorts []any) ([]notion.RawRecord, error)
}

var _ ResourceClient = (*notion.Client)(nil)
