// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/soulscript/notionkit/cmd/notionkit/handlers"
)

// Root returns the root command for the notionkit CLI.
func Root() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "notionkit",
		Short:         "Provision a project workspace in Notion",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			handlers.SetLogVerbosity(verbosity)
		},
	}

	cmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "Log verbosity (1 logs every stage, resource and HTTP request)")

	cmd.AddCommand(Init())
	cmd.AddCommand(Setup())
	cmd.AddCommand(Verify())
	cmd.AddCommand(Query())
	cmd.AddCommand(Archive())
	cmd.AddCommand(Serve())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
