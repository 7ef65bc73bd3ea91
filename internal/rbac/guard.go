package rbac

// RequirementKind identifies what a Guard checks
type RequirementKind string

const (
	RequirePermissionKind RequirementKind = "permission"
	RequireAnyKind        RequirementKind = "any_permission"
	RequireAllKind        RequirementKind = "all_permissions"
	RequireRoleKind       RequirementKind = "role"
)

// Built-in role names referenced by the role guard shorthands
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Requirement is the permission or role condition bound to a Guard
type Requirement struct {
	Kind        RequirementKind
	Permissions []Permission
	Roles       []Role
}

// Match returns the combinator for multi-permission requirements, or ""
// for single-permission and role requirements.
func (r Requirement) Match() Match {
	switch r.Kind {
	case RequireAnyKind:
		return MatchAny
	case RequireAllKind:
		return MatchAll
	default:
		return ""
	}
}

// String renders the requirement for diagnostics, e.g. "invoice:approve",
// "quote:edit or quote:approve" or "admin or manager".
func (r Requirement) String() string {
	switch r.Kind {
	case RequireRoleKind:
		return joinRoles(r.Roles)
	case RequireAllKind:
		if len(r.Permissions) == 0 {
			return requirementDescriptionNothingToAll
		}
		return joinPermissions(r.Permissions, requirementJoinAll)
	default:
		return joinPermissions(r.Permissions, requirementJoinAny)
	}
}

// Decision is the outcome of one Guard evaluation
type Decision struct {
	Allowed     bool
	Reason      Reason
	Requirement Requirement
	UserRole    Role
}

// Err returns nil for an allowed decision and a *DeniedError otherwise
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{
		Reason:      d.Reason,
		Requirement: d.Requirement,
		UserRole:    d.UserRole,
	}
}

// Guard is a reusable, stateless authorization check bound to a Requirement.
// Guards are safe to share between goroutines.
type Guard struct {
	registry    *Registry
	requirement Requirement
	accepts     map[Role]struct{}
}

// RequirePermission guards on a single permission
func RequirePermission(reg *Registry, permission Permission) Guard {
	return Guard{
		registry: reg,
		requirement: Requirement{
			Kind:        RequirePermissionKind,
			Permissions: []Permission{permission},
		},
	}
}

// RequireAnyPermission guards on holding at least one of permissions
func RequireAnyPermission(reg *Registry, permissions ...Permission) Guard {
	return Guard{
		registry: reg,
		requirement: Requirement{
			Kind:        RequireAnyKind,
			Permissions: append([]Permission(nil), permissions...),
		},
	}
}

// RequireAllPermissions guards on holding every one of permissions
func RequireAllPermissions(reg *Registry, permissions ...Permission) Guard {
	return Guard{
		registry: reg,
		requirement: Requirement{
			Kind:        RequireAllKind,
			Permissions: append([]Permission(nil), permissions...),
		},
	}
}

// RequireRole guards on the caller's role being one of roles
func RequireRole(reg *Registry, roles ...Role) Guard {
	accepts := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		accepts[r] = struct{}{}
	}
	return Guard{
		registry: reg,
		requirement: Requirement{
			Kind:  RequireRoleKind,
			Roles: append([]Role(nil), roles...),
		},
		accepts: accepts,
	}
}

// RequireAdmin is RequireRole(reg, RoleAdmin)
func RequireAdmin(reg *Registry) Guard {
	return RequireRole(reg, RoleAdmin)
}

// RequireManagerOrAdmin is RequireRole(reg, RoleAdmin, RoleManager)
func RequireManagerOrAdmin(reg *Registry) Guard {
	return RequireRole(reg, RoleAdmin, RoleManager)
}

// Requirement returns a copy of the guard's requirement
func (g Guard) Requirement() Requirement {
	req := g.requirement
	req.Permissions = append([]Permission(nil), req.Permissions...)
	req.Roles = append([]Role(nil), req.Roles...)
	return req
}

// Evaluate decides whether id satisfies the guard. The unauthenticated
// check always runs before the requirement check.
func (g Guard) Evaluate(id *Identity) Decision {
	d := Decision{Requirement: g.Requirement()}

	if id == nil {
		d.Reason = ReasonUnauthenticated
		return d
	}
	d.UserRole = id.Role

	if g.satisfied(id.Role) {
		d.Allowed = true
		return d
	}

	d.Reason = ReasonForbidden
	return d
}

// Check is Evaluate(id).Err()
func (g Guard) Check(id *Identity) error {
	return g.Evaluate(id).Err()
}

func (g Guard) satisfied(role Role) bool {
	// A guard built without a registry cannot grant anything.
	if g.registry == nil && g.requirement.Kind != RequireRoleKind {
		return false
	}

	switch g.requirement.Kind {
	case RequirePermissionKind:
		return len(g.requirement.Permissions) == 1 &&
			g.registry.HasPermission(role, g.requirement.Permissions[0])
	case RequireAnyKind:
		return g.registry.HasAnyPermission(role, g.requirement.Permissions...)
	case RequireAllKind:
		return g.registry.HasAllPermissions(role, g.requirement.Permissions...)
	case RequireRoleKind:
		_, ok := g.accepts[role]
		return ok
	default:
		return false
	}
}
