package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/util/async"
)

// Archive archives the given pages or database entries, up to the configured
// concurrency at a time. Every ID is attempted; the returned error joins the
// failures.
func Archive(ctx context.Context, configPath string, pageIDs []string) error {
	if len(pageIDs) == 0 {
		return fmt.Errorf("at least one page ID is required")
	}

	ids := make([]string, 0, len(pageIDs))
	for _, raw := range pageIDs {
		id, err := notion.NormalizeID(raw)
		if err != nil {
			return fmt.Errorf("invalid page %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	cfg, client, err := connect(configPath)
	if err != nil {
		return err
	}

	tasks := make([]async.Task, len(ids))
	for i, id := range ids {
		tasks[i] = async.Task{Name: id, Func: func(ctx context.Context) error {
			return client.ArchivePage(ctx, id)
		}}
	}

	results := async.RunAll(ctx, tasks, cfg.Concurrency)
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  failed   %s\n", r.Name)
			continue
		}
		fmt.Printf("  archived %s\n", r.Name)
	}

	var errs []error
	for _, r := range async.Failed(results) {
		errs = append(errs, fmt.Errorf("archive %s: %w", r.Name, r.Err))
	}
	return errors.Join(errs...)
}
