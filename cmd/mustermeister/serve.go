package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tgienger/mustermeister/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the analysis report pages",
		Long: `Serve the JSON API and the analysis report pages.

Requests identify their user with the X-User-ID header.

Examples:
  mustermeister serve
  mustermeister serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			return server.New(a.svc, a.logger, a.cfg).Run(ctx, addr)
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr from config)")
	return cmd
}
