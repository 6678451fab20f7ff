package cli

import (
	"github.com/spf13/cobra"

	"github.com/opmtools/opdflow/internal/server"
)

// serveCommand runs the HTTP query service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flow queries over HTTP",
		Long: `Serve flow queries over HTTP. Each request posts a diagram as JSON:

  POST /v1/analyze               bands and edges of the diagram
  POST /v1/initial               processes that start the flow
  POST /v1/next?process=<id>     processes that follow <id>
  GET  /healthz                  liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			ctx := cmd.Context()
			srv := server.New(server.Options{Logger: loggerFromContext(ctx)})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
