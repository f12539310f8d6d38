package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tardislabs/tardis/internal/relay"
	"github.com/tardislabs/tardis/internal/upstream"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket relay in front of the upstream API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd)

			client, err := upstream.New(cfg.Upstream)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := relay.NewServer(cfg.Relay, client, cfg.Session, logger)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	return cmd
}
