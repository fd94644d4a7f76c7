package commands

import (
	"github.com/spf13/cobra"

	"github.com/soulscript/notionkit/cmd/notionkit/handlers"
)

// Serve returns the command that runs the setup trigger endpoint.
func Serve() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the setup endpoint over HTTP",
		Long: `Serve the setup endpoint over HTTP.

Endpoints:

  POST /api/notion-setup            run a setup for {"parentLocationId": "..."}
  GET  /api/notion-setup/runs/:id   progress of a run
  GET  /healthz                     liveness
  GET  /metrics                     Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: notionkit.yaml)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from the config, :8080)")

	return cmd
}
