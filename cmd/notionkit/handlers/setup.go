package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/config/wizard"
	"github.com/soulscript/notionkit/internal/handlestore"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/schema"
	"github.com/soulscript/notionkit/internal/ui/tui"
)

// Factory function variables for setup - can be replaced in tests.
var (
	// askParent prompts for the parent page on an interactive terminal.
	askParent = wizard.AskParent

	// runSetupTUI renders a run in the Bubble Tea progress view.
	runSetupTUI = tui.RunSetupTUI
)

// SetupOptions holds the flags of the setup command.
type SetupOptions struct {
	ConfigPath string
	ParentID   string
	TestOnly   bool
	NoTUI      bool
	Reuse      bool
}

// Setup provisions the workspace under the parent page.
//
// The workflow:
//  1. Loads the config and resolves the integration token
//  2. Resolves the parent page from the flag, the config, or a prompt
//  3. Locks the parent in the handle store and loads the handle of an
//     earlier run, so databases that already exist are not created again
//  4. Runs the orchestrator, rendering progress as a TUI or plain lines
//  5. Saves the workspace handle, also after a partial failure
func Setup(ctx context.Context, opts SetupOptions) error {
	cfg, client, err := connect(opts.ConfigPath)
	if err != nil {
		return err
	}

	interactive := !opts.NoTUI && isInteractiveTTY()

	parentID, err := resolveParent(ctx, opts, cfg, interactive)
	if err != nil {
		return err
	}

	store, err := newHandleStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open handle store: %w", err)
	}

	var existing provisioning.Workspace
	persist := parentID != "" && !opts.TestOnly
	if persist {
		unlock, err := store.Lock(ctx, parentID)
		if errors.Is(err, handlestore.ErrLocked) {
			return fmt.Errorf("setup is already running for parent page %s", parentID)
		}
		if err != nil {
			return fmt.Errorf("failed to lock parent page: %w", err)
		}
		defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

		existing, err = store.Load(ctx, parentID)
		if err != nil {
			return fmt.Errorf("failed to load workspace handle: %w", err)
		}
		if !existing.IsZero() {
			fmt.Printf("Resuming workspace: %d of %d databases exist\n", len(existing.Created()), len(schema.All()))
		}
	}

	log := logr.Discard()
	if !interactive {
		log = newLogger("setup").V(1)
	}
	orchestrator := provisioning.NewOrchestrator(client,
		provisioning.WithObserver(provisioning.NewLogObserver(log)))

	tracker := provisioning.NewTracker()
	runOpts := provisioning.Options{
		TestOnly:    opts.TestOnly,
		Existing:    existing,
		Reuse:       opts.Reuse,
		Concurrency: cfg.Concurrency,
	}
	run := func(ctx context.Context) (*provisioning.Result, error) {
		return orchestrator.Run(ctx, parentID, tracker, runOpts)
	}

	var (
		result *provisioning.Result
		runErr error
	)
	if interactive {
		result, runErr = runSetupTUI(ctx, tracker, parentID, opts.TestOnly, run)
	} else {
		stop := tui.Follow(tracker, os.Stdout)
		result, runErr = run(ctx)
		stop()
	}

	if persist {
		if err := saveHandle(ctx, store, parentID, existing, result, runErr); err != nil {
			if runErr == nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("setup failed: %w", runErr)
	}

	printSetupSummary(parentID, result, opts.TestOnly)
	return nil
}

// resolveParent picks the parent page from the flag, then the config, then
// an interactive prompt. A connectivity test needs no parent.
func resolveParent(ctx context.Context, opts SetupOptions, cfg *config.Config, interactive bool) (string, error) {
	raw := opts.ParentID
	if raw == "" {
		raw = cfg.ParentPageID
	}
	if raw != "" {
		id, err := notion.NormalizeID(raw)
		if err != nil {
			return "", fmt.Errorf("invalid parent page: %w", err)
		}
		return id, nil
	}
	if opts.TestOnly {
		return "", nil
	}
	if !interactive {
		return "", fmt.Errorf("no parent page: pass --parent, set parentPageId in the config, or export %s", config.EnvParentPageID)
	}
	return askParent(ctx)
}

// saveHandle stores the databases created by a run. A partial failure still
// saves what was created so the next run resumes.
func saveHandle(ctx context.Context, store handlestore.Store, parentID string, existing provisioning.Workspace, result *provisioning.Result, runErr error) error {
	var ws provisioning.Workspace
	if result != nil {
		ws = result.Workspace
	}
	var partial *provisioning.PartialProvisioningError
	if errors.As(runErr, &partial) && ws.IsZero() {
		ws = partial.Handle
	}
	if ws.IsZero() || ws == existing {
		return nil
	}

	if err := store.Save(context.WithoutCancel(ctx), parentID, ws); err != nil {
		return fmt.Errorf("failed to save workspace handle: %w", err)
	}
	return nil
}

func printSetupSummary(parentID string, result *provisioning.Result, testOnly bool) {
	fmt.Println()
	if result.Account.Name != "" {
		fmt.Printf("Connected as %s", result.Account.Name)
		if result.Account.WorkspaceName != "" {
			fmt.Printf(" (%s)", result.Account.WorkspaceName)
		}
		fmt.Println()
	}
	if testOnly {
		fmt.Println("Connection test passed.")
		return
	}

	fmt.Printf("Workspace ready under %s\n", parentID)
	fmt.Println()
	for _, db := range schema.All() {
		fmt.Printf("  %-20s %s\n", db.Name, result.Workspace.ID(db.Key))
	}

	if len(result.Documentation) > 0 {
		fmt.Println()
		fmt.Println("Documentation")
		for _, p := range result.Documentation {
			fmt.Printf("  %s%s\n", p.Title, reusedSuffix(p))
			if p.URL != "" {
				fmt.Printf("    %s\n", p.URL)
			}
		}
	}

	if len(result.Samples) > 0 {
		fmt.Println()
		fmt.Println("Sample data")
		for _, s := range result.Samples {
			fmt.Printf("  %-8s %s%s\n", s.Kind, s.Page.Title, reusedSuffix(s.Page))
		}
	}

	if len(result.Failures) > 0 {
		fmt.Println()
		fmt.Printf("%d item(s) could not be created:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  - %s\n", f.Error())
		}
		fmt.Println("Run setup again to retry them.")
	}
	fmt.Println()
}

func reusedSuffix(p notion.Page) string {
	if p.Reused {
		return " (existing)"
	}
	return ""
}
