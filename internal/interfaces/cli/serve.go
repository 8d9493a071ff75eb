package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres"
	"github.com/mmundy42/cobrababel/internal/infrastructure/database/postgres/repositories"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/metrics"
	apihttp "github.com/mmundy42/cobrababel/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve stored universal models over HTTP",
		Long:  "Serve runs the browse API against the configured database, exposing stored\nmodels, their entities, and COBRA JSON exports.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config
	logger := cliCtx.Logger

	if !cfg.Database.Enabled {
		return fmt.Errorf("serve requires database.enabled")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
		return err
	}
	pool, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repositories.NewModelRepository(pool, logger)
	srv := apihttp.NewServer(cfg.Server, repo, metrics.New(), logger)

	if cliCtx.ConfigPath != "" {
		config.Watch(cliCtx.ConfigPath, func(_ *config.Config) {
			logger.Warn("configuration file changed; restart to apply",
				logging.String("path", cliCtx.ConfigPath))
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", logging.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := srv.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
