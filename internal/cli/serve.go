package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/internal/server"
	"github.com/matzehuels/stowage/pkg/cache"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve the layout HTTP API.

Routes: GET /healthz and POST /v1/layout, /v1/scale, /v1/overlaps and
/v1/preview. The cache backend (file, redis or none) and the default layout
options come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			logger := loggerFromContext(ctx)

			if reason, off := cache.IsDisabled(runner.Cache); off {
				logger.Debug("cache disabled", "reason", reason)
			} else {
				logger.Debug("cache backend", "backend", c.Config.Cache.Backend)
			}
			return server.New(runner, logger, c.Config.Options(), server.WithMaxInstances(c.Config.Server.MaxInstances)).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
