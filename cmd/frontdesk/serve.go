package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/frontdesk/internal/http/server"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		app, err := server.Build(context.Background(), cfg)
		if err != nil {
			return err
		}
		return app.Run()
	},
}
