package provisioning

import (
	"context"
	"fmt"

	"github.com/soulscript/notionkit/internal/content"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/schema"
	"github.com/soulscript/notionkit/internal/util/async"
)

type connectivityPhase struct{}

func (connectivityPhase) Name() Stage      { return StageConnectivity }
func (connectivityPhase) Describe() string { return "Testing API connection" }

func (connectivityPhase) Provision(ctx *Context) (string, error) {
	info, err := ctx.Client.Identity(ctx)
	if err != nil {
		return "", err
	}
	ctx.State.Account = info

	if info.WorkspaceName != "" {
		return fmt.Sprintf("Connected to workspace %q as %s", info.WorkspaceName, info.Name), nil
	}
	return fmt.Sprintf("Connected as %s", info.Name), nil
}

// databasePhase creates the databases in catalog order. Databases already
// present in the state's workspace are kept. The first failure stops the
// stage; nothing created so far is removed.
type databasePhase struct{}

func (databasePhase) Name() Stage      { return StageDatabaseCreation }
func (databasePhase) Describe() string { return "Creating databases" }

func (databasePhase) Provision(ctx *Context) (string, error) {
	stage := string(StageDatabaseCreation)
	ws := &ctx.State.Workspace
	created, reused := 0, 0

	for _, db := range schema.All() {
		if id := ws.ID(db.Key); id != "" {
			LogResourceExists(ctx.Observer, stage, "database", db.Name, id)
			reused++
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", partialError(*ws, err)
		}

		LogResourceCreating(ctx.Observer, stage, "database", db.Name)
		id, err := ctx.Client.CreateDatabase(ctx, ctx.ParentID, db)
		if id != "" {
			ws.Set(db.Key, id)
			created++
		}
		if err != nil {
			LogResourceFailed(ctx.Observer, stage, "database", db.Name, err)
			return "", partialError(*ws, err)
		}
		LogResourceCreated(ctx.Observer, stage, "database", db.Name, id)
	}

	switch {
	case reused == 0:
		return fmt.Sprintf("Created %d databases", created), nil
	case created == 0:
		return fmt.Sprintf("Reused %d existing databases", reused), nil
	default:
		return fmt.Sprintf("Created %d databases, reused %d", created, reused), nil
	}
}

func partialError(ws Workspace, err error) *PartialProvisioningError {
	return &PartialProvisioningError{
		Created: ws.Created(),
		Missing: ws.Missing(),
		Handle:  ws,
		Err:     err,
	}
}

// documentationPhase creates the documentation pages in the features
// database concurrently. A failed page is recorded and does not stop the run.
type documentationPhase struct{}

func (documentationPhase) Name() Stage      { return StageDocumentation }
func (documentationPhase) Describe() string { return "Creating documentation pages" }

func (documentationPhase) Provision(ctx *Context) (string, error) {
	db := schema.Features()
	dbID := ctx.State.Workspace.ID(db.Key)
	if dbID == "" {
		return "", fmt.Errorf("no %s database to hold documentation", db.Name)
	}

	docs := ctx.Options.documents()
	titleProp := db.TitleProperty()
	pages := make([]notion.Page, len(docs))

	tasks := make([]async.Task, len(docs))
	for i, d := range docs {
		tasks[i] = async.Task{Name: d.Title, Func: func(c context.Context) error {
			page, err := ctx.ensurePage(c, StageDocumentation, "page", dbID, titleProp, d.Title, func(c context.Context) (notion.Page, error) {
				return ctx.Client.CreatePage(c, dbID, content.Page(titleProp, d.Title, d.Prose))
			})
			pages[i] = page
			return err
		}}
	}

	results := async.RunAll(ctx, tasks, ctx.Options.Concurrency)
	done, reused := ctx.collect(StageDocumentation, results, pages, func(_ int, page notion.Page) {
		ctx.State.Documentation = append(ctx.State.Documentation, page)
	})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return summarize("documentation pages", done, reused, len(docs)), nil
}

// samplePhase seeds one record per database concurrently. A failed record is
// recorded and does not stop the run.
type samplePhase struct{}

func (samplePhase) Name() Stage      { return StageSampleData }
func (samplePhase) Describe() string { return "Adding sample data" }

func (samplePhase) Provision(ctx *Context) (string, error) {
	samples := ctx.Options.samples()
	pages := make([]notion.Page, len(samples))

	tasks := make([]async.Task, len(samples))
	for i, rec := range samples {
		tasks[i] = async.Task{Name: rec.Title(), Func: func(c context.Context) error {
			db := rec.Schema()
			dbID := ctx.State.Workspace.ID(db.Key)
			if dbID == "" {
				return fmt.Errorf("no %s database for %s", db.Name, rec.Kind())
			}
			page, err := ctx.ensurePage(c, StageSampleData, string(rec.Kind()), dbID, db.TitleProperty(), rec.Title(), func(c context.Context) (notion.Page, error) {
				return ctx.Client.CreateRecord(c, dbID, rec)
			})
			pages[i] = page
			return err
		}}
	}

	results := async.RunAll(ctx, tasks, ctx.Options.Concurrency)
	done, reused := ctx.collect(StageSampleData, results, pages, func(i int, page notion.Page) {
		ctx.State.Samples = append(ctx.State.Samples, Sample{Kind: samples[i].Kind(), Page: page})
	})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return summarize("sample entries", done, reused, len(samples)), nil
}

// collect folds the outcome of a concurrent stage into State: created pages
// go to keep, failed items are recorded. It runs before a cancellation is
// reported so items finished before the cancel are not lost.
func (ctx *Context) collect(stage Stage, results []async.Result, pages []notion.Page, keep func(i int, page notion.Page)) (done, reused int) {
	for i, r := range results {
		ctx.Observer.Progress(string(stage), i+1, len(results))
		if r.Err != nil {
			ctx.State.fail(stage, r.Name, r.Err)
			continue
		}
		keep(i, pages[i])
		done++
		if pages[i].Reused {
			reused++
		}
	}
	return done, reused
}

type completionPhase struct{}

func (completionPhase) Name() Stage      { return StageCompletion }
func (completionPhase) Describe() string { return "Finishing setup" }

func (completionPhase) Provision(ctx *Context) (string, error) {
	if n := ctx.State.failureCount(); n > 0 {
		return fmt.Sprintf("Workspace is ready with %d failed item(s)", n), nil
	}
	return "Workspace is ready", nil
}

// ensurePage returns the existing page titled title when reuse is enabled,
// and creates it otherwise.
func (ctx *Context) ensurePage(c context.Context, stage Stage, kind, dbID, titleProp, title string, create func(context.Context) (notion.Page, error)) (notion.Page, error) {
	if ctx.Options.reuse() {
		found, err := ctx.Client.QueryDatabase(c, dbID, notion.TitleEquals(titleProp, title), nil)
		if err != nil {
			LogResourceFailed(ctx.Observer, string(stage), kind, title, err)
			return notion.Page{}, fmt.Errorf("look up existing %s: %w", kind, err)
		}
		for _, raw := range found {
			if raw.Archived {
				continue
			}
			LogResourceExists(ctx.Observer, string(stage), kind, title, raw.ID)
			return notion.Page{
				ID:               raw.ID,
				Title:            title,
				URL:              raw.URL,
				CreatedAt:        raw.CreatedTime,
				EditedAt:         raw.LastEditedTime,
				ParentDatabaseID: dbID,
				Reused:           true,
			}, nil
		}
	}

	LogResourceCreating(ctx.Observer, string(stage), kind, title)
	page, err := create(c)
	if err != nil {
		if page.ID != "" {
			// Created, but the body was cut short.
			err = &IncompletePageError{PageID: page.ID, Err: err}
		}
		LogResourceFailed(ctx.Observer, string(stage), kind, title, err)
		return notion.Page{}, err
	}
	LogResourceCreated(ctx.Observer, string(stage), kind, title, page.ID)
	return page, nil
}

func summarize(what string, done, reused, total int) string {
	if reused > 0 {
		return fmt.Sprintf("Created %d of %d %s (%d reused)", done, total, what, reused)
	}
	return fmt.Sprintf("Created %d of %d %s", done, total, what)
}
