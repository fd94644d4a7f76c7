package commands

import (
	"github.com/spf13/cobra"

	"github.com/soulscript/notionkit/cmd/notionkit/handlers"
)

// Setup returns the command that provisions the workspace.
func Setup() *cobra.Command {
	var opts handlers.SetupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the project workspace under a parent page",
		Long: `Create the project workspace under a parent page.

Setup runs five stages in order:

  1. Connectivity      check the integration token
  2. DatabaseCreation  Issues & Bugs, Development Tasks, Feature Requests
  3. Documentation     Project Overview, API Documentation, Development Guide
  4. SampleData        one issue, one task and one feature request
  5. Completion

Failures in the first two stages stop the run. Databases that were created
are recorded in the handle store, so running setup again resumes instead of
creating duplicates. Documentation and sample failures are reported and
retried by the next run.

On a terminal, progress is shown as an interactive view; use --no-tui for
plain output.`,
		Example: `  # Parent from notionkit.yaml
  notionkit setup

  # Explicit parent page
  notionkit setup --parent https://www.notion.so/My-Project-0123456789abcdef0123456789abcdef

  # Only check the connection
  notionkit setup --test-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Setup(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: notionkit.yaml)")
	cmd.Flags().StringVarP(&opts.ParentID, "parent", "p", "", "Parent page ID or share link")
	cmd.Flags().BoolVar(&opts.TestOnly, "test-only", false, "Only check connectivity")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Print plain progress lines instead of the interactive view")
	cmd.Flags().BoolVar(&opts.Reuse, "reuse", false, "Look up pages by title before creating them, even without a stored handle")

	return cmd
}
