package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/upskill-backend/internal/app"
	"github.com/yungbote/upskill-backend/internal/data/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the leads and events tables, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg := app.LoadConfig(log)
			database, err := db.Open(cfg.DB, log)
			if err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			defer database.Close()

			if err := db.AutoMigrateAll(database.DB()); err != nil {
				return fmt.Errorf("database automigrate: %w", err)
			}
			log.Info("Migration complete", "driver", database.Driver())
			return nil
		},
	}
}
