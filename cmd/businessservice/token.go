package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"business-service/internal/auth"
	"business-service/internal/rbac"
)

var (
	tokenUserID string
	tokenRole   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for local testing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		userID := uuid.New()
		if tokenUserID != "" {
			userID, err = uuid.Parse(tokenUserID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
		}

		tok, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration).Generate(userID, rbac.Role(tokenRole))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "User id (random when empty)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "Role claim")
	_ = tokenCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(tokenCmd)
}
