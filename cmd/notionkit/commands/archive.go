package commands

import (
	"github.com/spf13/cobra"

	"github.com/soulscript/notionkit/cmd/notionkit/handlers"
)

// Archive returns the command that archives pages.
func Archive() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "archive <page-id>...",
		Short: "Archive pages or database entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Archive(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: notionkit.yaml)")

	return cmd
}
