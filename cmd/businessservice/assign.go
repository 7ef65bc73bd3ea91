package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"business-service/internal/app"
	"business-service/internal/repository/postgres"
)

var (
	assignUserID string
	assignRole   string
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Set a user's stored role",
	Long: `Set a user's stored role. With RBAC_ROLE_LOOKUP enabled the new role
takes effect on the user's next request.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		userID, err := uuid.Parse(assignUserID)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}

		reg, err := app.NewRegistry(cfg.RBAC.Preset)
		if err != nil {
			return err
		}
		role, err := reg.ValidateRole(assignRole)
		if err != nil {
			return err
		}

		db, err := app.OpenDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.NewUserRepository(db.Pool).UpdateRole(cmd.Context(), userID, role); err != nil {
			return err
		}

		log.Info("role assigned", slog.String("user_id", userID.String()), slog.String("role", string(role)))
		return nil
	},
}

func init() {
	assignCmd.Flags().StringVar(&assignUserID, "user", "", "User id")
	assignCmd.Flags().StringVar(&assignRole, "role", "", "Role to assign")
	_ = assignCmd.MarkFlagRequired("user")
	_ = assignCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(assignCmd)
}
