package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/store/pg"
	migrations "github.com/dropDatabas3/frontdesk/migrations/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := context.Background()
		store, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{})
		if err != nil {
			return err
		}
		defer store.Close()

		return store.Migrate(ctx, migrations.FS, migrations.Dir)
	},
}
