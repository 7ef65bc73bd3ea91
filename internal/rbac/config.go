package rbac

import "strings"

const permissionSeparator = ":"

// Config holds the static permission universe and role table
type Config struct {
	Permissions []Permission
	Roles       []RoleDefinition
}

// Validate checks internal consistency of the Config
func (c *Config) Validate() error {
	if len(c.Permissions) == 0 {
		return configError(errConfigPermissionsEmpty)
	}
	if len(c.Roles) == 0 {
		return configError(errConfigRolesEmpty)
	}

	permSet := make(map[Permission]bool, len(c.Permissions))
	for _, p := range c.Permissions {
		if p == "" {
			return configError(errConfigPermissionEmpty)
		}
		if !wellFormed(p) {
			return configError(errConfigPermissionMalformedFmt, p)
		}
		if permSet[p] {
			return configError(errConfigDuplicatePermissionFmt, p)
		}
		permSet[p] = true
	}

	roleNames := make(map[Role]bool, len(c.Roles))
	for _, rd := range c.Roles {
		if rd.Name == "" {
			return configError(errConfigRoleNameEmpty)
		}
		if roleNames[rd.Name] {
			return configError(errConfigDuplicateRoleNameFmt, rd.Name)
		}
		roleNames[rd.Name] = true

		if rd.AllPermissions && len(rd.Permissions) > 0 {
			return configError(errConfigRoleAllWithExplicitFmt, rd.Name)
		}

		seen := make(map[Permission]bool, len(rd.Permissions))
		for _, p := range rd.Permissions {
			if !permSet[p] {
				return configError(errConfigRoleUnknownPermissionFmt, rd.Name, p)
			}
			if seen[p] {
				return configError(errConfigRoleDuplicatePermFmt, rd.Name, p)
			}
			seen[p] = true
		}
	}

	return nil
}

func wellFormed(p Permission) bool {
	resource, action, ok := strings.Cut(string(p), permissionSeparator)
	return ok && resource != "" && action != "" && !strings.Contains(action, permissionSeparator)
}
