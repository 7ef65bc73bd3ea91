package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"business-service/internal/app"
	"business-service/internal/rbac"
)

var rolesPreset string

var rolesCmd = &cobra.Command{
	Use:   "roles [role]",
	Short: "Print the role to permission matrix, or one role's permissions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := app.NewRegistry(presetFromEnv(rolesPreset))
		if err != nil {
			return err
		}

		roles := reg.Roles()
		if len(args) == 1 {
			role, err := reg.ValidateRole(args[0])
			if err != nil {
				return err
			}
			roles = []rbac.Role{role}
		}

		return printRoles(cmd.OutOrStdout(), reg, roles)
	},
}

func printRoles(w io.Writer, reg *rbac.Registry, roles []rbac.Role) error {
	if jsonOutput {
		out := make(map[rbac.Role][]rbac.Permission, len(roles))
		for _, role := range roles {
			out[role] = reg.RolePermissions(role)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tCOUNT\tPERMISSIONS")
	for _, role := range roles {
		perms := reg.RolePermissions(role)
		names := make([]string, len(perms))
		for i, p := range perms {
			names[i] = string(p)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", role, len(perms), strings.Join(names, ", "))
	}
	return tw.Flush()
}

func init() {
	rolesCmd.Flags().StringVar(&rolesPreset, "preset", "", "RBAC preset (defaults to RBAC_PRESET or business)")
	rootCmd.AddCommand(rolesCmd)
}
