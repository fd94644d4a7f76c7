package commands

import (
	"github.com/spf13/cobra"

	"github.com/soulscript/notionkit/cmd/notionkit/handlers"
)

// Verify returns the command that checks the integration token.
func Verify() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the integration token against the API",
		Long: `Check the integration token against the API.

Rate limiting and server errors are retried with backoff. An invalid token
fails immediately.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Verify(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: notionkit.yaml)")

	return cmd
}
