package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"business-service/internal/app"
	"business-service/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users and authorization_denials tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := app.OpenDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.ApplySchema(cmd.Context(), db.Pool); err != nil {
			return err
		}

		missing, err := postgres.MissingTables(cmd.Context(), db.Pool)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("tables not created: %s", strings.Join(missing, ", "))
		}

		log.Info("schema applied", slog.String("database", cfg.Database.Database))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
