package commands

import (
	"github.com/spf13/cobra"

	"github.com/soulscript/notionkit/cmd/notionkit/handlers"
)

// Query returns the command that lists database entries.
func Query() *cobra.Command {
	var opts handlers.QueryOptions

	cmd := &cobra.Command{
		Use:       "query <issues|tasks|features>",
		Short:     "List the entries of a workspace database",
		ValidArgs: []string{"issues", "tasks", "features"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Database = args[0]
			return handlers.Query(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: notionkit.yaml)")
	cmd.Flags().StringVarP(&opts.ParentID, "parent", "p", "", "Parent page whose stored workspace is queried")
	cmd.Flags().StringVar(&opts.DatabaseID, "database-id", "", "Query this database directly instead of the stored workspace")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Only entries with exactly this title")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", handlers.OutputTable, "Output format (table or yaml)")

	return cmd
}
