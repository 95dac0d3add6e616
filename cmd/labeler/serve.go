package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/garyjia/invoice-labeler/internal/container"
	"github.com/garyjia/invoice-labeler/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if opts.verbose {
				cfg.Logger.Level = "debug"
			}

			logger, err := utils.NewLogger(cfg.LoggerOptions())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			c, err := container.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("Serving labeling API", zap.Int("port", cfg.Server.Port))
			return c.HTTPServer().Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Override server.port")

	return cmd
}
