package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"business-service/internal/app"
	"business-service/internal/rbac"
)

var (
	checkPreset      string
	checkRole        string
	checkPermissions []string
	checkMatch       string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a permission requirement for a role",
	Example: `  businessservice check --role manager --permission invoice:approve
  businessservice check --role user --permission quote:edit --permission quote:approve --match any`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := app.NewRegistry(presetFromEnv(checkPreset))
		if err != nil {
			return err
		}

		guard, err := buildGuard(reg, checkPermissions, rbac.Match(checkMatch))
		if err != nil {
			return err
		}

		id := &rbac.Identity{Role: rbac.Role(checkRole)}
		decision := guard.Evaluate(id)

		if decision.Allowed {
			fmt.Fprintf(cmd.OutOrStdout(), "allowed: role '%s' satisfies %s\n", checkRole, decision.Requirement)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "denied: %v\n", decision.Err())
		return decision.Err()
	},
}

func buildGuard(reg *rbac.Registry, perms []string, match rbac.Match) (rbac.Guard, error) {
	if len(perms) == 0 {
		return rbac.Guard{}, errors.New("at least one --permission is required")
	}

	permissions := make([]rbac.Permission, len(perms))
	for i, p := range perms {
		permissions[i] = rbac.Permission(p)
	}

	switch {
	case len(permissions) == 1 && match == "":
		return rbac.RequirePermission(reg, permissions[0]), nil
	case match == rbac.MatchAll:
		return rbac.RequireAllPermissions(reg, permissions...), nil
	case match == rbac.MatchAny || match == "":
		return rbac.RequireAnyPermission(reg, permissions...), nil
	default:
		return rbac.Guard{}, fmt.Errorf("--match must be any or all, got %q", match)
	}
}

func init() {
	checkCmd.Flags().StringVar(&checkPreset, "preset", "", "RBAC preset (defaults to RBAC_PRESET or business)")
	checkCmd.Flags().StringVar(&checkRole, "role", "", "Role to evaluate")
	checkCmd.Flags().StringArrayVar(&checkPermissions, "permission", nil, "Required permission (repeatable)")
	checkCmd.Flags().StringVar(&checkMatch, "match", "", "Combinator for several permissions: any or all")
	_ = checkCmd.MarkFlagRequired("role")
	_ = checkCmd.MarkFlagRequired("permission")
	rootCmd.AddCommand(checkCmd)
}
