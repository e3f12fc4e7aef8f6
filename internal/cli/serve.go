package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/casperflow/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve editor sessions over HTTP",
		Long: `Serve the editor API for graphical front ends. Each client creates a
session, fetches snapshots and edits by snapshot id. Library routes read
and write the configured store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config.Server.Addr
			}

			lib, err := c.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Store().Close()

			srv := server.New(server.Options{
				Library:    lib,
				SessionTTL: ttl,
				Logger:     c.Logger,
			})
			printInfo("Serving on %s", StyleLink.Render("http://"+addr))
			printDetail("Library store: %s", lib.Store().Backend())
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().DurationVar(&ttl, "session-ttl", server.DefaultSessionTTL, "evict sessions idle for longer")
	return cmd
}
