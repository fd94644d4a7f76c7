package commands

import (
	"github.com/spf13/cobra"

	"github.com/soulscript/notionkit/cmd/notionkit/handlers"
	"github.com/soulscript/notionkit/internal/config"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "notionkit.yaml")
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var (
		outputPath string
		fullOutput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration",
		Long: `Interactively create a notionkit configuration file.

The wizard asks for:

  - The parent page the workspace is created under
  - An optional file holding the integration token
  - Where workspace handles are stored between runs
  - How many pages and entries are created in parallel

The integration token itself is never written to the file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVarP(&fullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
