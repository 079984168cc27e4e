package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskal/pkg/server"
)

type serveOpts struct {
	addr        string
	sessionTTL  time.Duration
	maxSessions int
	noCache     bool
}

// serveCommand creates the serve command, which exposes engines and runs
// over an HTTP JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		sessionTTL:  server.DefaultSessionTTL,
		maxSessions: server.DefaultMaxSessions,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API under /api/v1.

Sessions hold a stepping engine each and expire after --session-ttl without
use. Stateless runs go through the same trace cache as "kruskal run".`,
		Example: `  kruskal serve
  kruskal serve --addr 127.0.0.1:9000 --session-ttl 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := c.Config.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr = opts.addr
			}
			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(
				server.WithLogger(c.Logger),
				server.WithRunner(runner),
				server.WithSessionTTL(opts.sessionTTL),
				server.WithMaxSessions(opts.maxSessions),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", opts.sessionTTL, "idle time before a session expires")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", opts.maxSessions, "sessions kept before the least recently used is evicted")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the trace cache")

	return cmd
}
