package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/olympus/internal/api"
	"github.com/mrz1836/olympus/internal/constants"
	"github.com/mrz1836/olympus/internal/logging"
	"github.com/mrz1836/olympus/internal/signal"
)

// AddServeCommand adds the serve command.
func AddServeCommand(root *cobra.Command, flags *GlobalFlags) {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hub over HTTP",
		Long: `Serve keeps one hub alive and exposes every lifecycle step, the agent
registry, mined knowledge and the evolution engine as JSON endpoints.
SIGINT or SIGTERM triggers a graceful shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := signal.NewHandler(cmd.Context())
			defer h.Stop()

			return withApp(h.Context(), flags, func(ctx context.Context, a *app) error {
				if addr == "" {
					addr = a.cfg.Server.Addr
				}
				err := serve(ctx, api.New(a.hub, addr, logging.Component(a.logger, "api")), a.cfg.Server.ShutdownTimeout, a.logger)
				if sig := h.Received(); sig != nil {
					a.logger.Info().Str("signal", sig.String()).Msg("shutdown requested")
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	root.AddCommand(cmd)
}

// serve runs srv until ctx is done, then shuts it down within timeout.
func serve(ctx context.Context, srv *api.Server, timeout time.Duration, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if timeout <= 0 {
		timeout = constants.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return <-errCh
}
