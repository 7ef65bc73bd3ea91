package rbac

import (
	"fmt"
	"sort"
)

type permissionSet map[Permission]struct{}

// Registry answers permission queries against a validated Config.
// All internal state is read-only after New, so a Registry is safe for
// concurrent use without locking.
type Registry struct {
	permissions []Permission
	roles       []Role
	validPerms  permissionSet
	grants      map[Role]permissionSet
}

// New creates a Registry from a validated Config
func New(cfg Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{}
	r.buildLookups(cfg)
	return r, nil
}

// MustNew creates a Registry and panics on invalid config.
// Use this with known-good presets at init time.
func MustNew(cfg Config) *Registry {
	r, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return r
}

func (r *Registry) buildLookups(cfg Config) {
	r.permissions = append([]Permission(nil), cfg.Permissions...)

	r.validPerms = make(permissionSet, len(cfg.Permissions))
	for _, p := range cfg.Permissions {
		r.validPerms[p] = struct{}{}
	}

	r.roles = make([]Role, 0, len(cfg.Roles))
	r.grants = make(map[Role]permissionSet, len(cfg.Roles))
	for _, rd := range cfg.Roles {
		r.roles = append(r.roles, rd.Name)

		// AllPermissions roles are derived from the universe so new
		// permissions reach them without touching the role table.
		granted := rd.Permissions
		if rd.AllPermissions {
			granted = cfg.Permissions
		}

		set := make(permissionSet, len(granted))
		for _, p := range granted {
			set[p] = struct{}{}
		}
		r.grants[rd.Name] = set
	}
}

// HasPermission reports whether role is granted permission.
// Unknown roles and unknown permissions are denied.
func (r *Registry) HasPermission(role Role, permission Permission) bool {
	set, ok := r.grants[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// HasAnyPermission reports whether role holds at least one of permissions.
// An empty list is never satisfied.
func (r *Registry) HasAnyPermission(role Role, permissions ...Permission) bool {
	for _, p := range permissions {
		if r.HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether role holds every one of permissions.
// An empty list is always satisfied.
func (r *Registry) HasAllPermissions(role Role, permissions ...Permission) bool {
	for _, p := range permissions {
		if !r.HasPermission(role, p) {
			return false
		}
	}
	return true
}

// RolePermissions returns a sorted copy of the permissions granted to role.
// Unknown roles get an empty slice.
func (r *Registry) RolePermissions(role Role) []Permission {
	set := r.grants[role]
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Roles returns the configured roles in declaration order
func (r *Registry) Roles() []Role {
	return append([]Role(nil), r.roles...)
}

// Permissions returns the permission universe in declaration order
func (r *Registry) Permissions() []Permission {
	return append([]Permission(nil), r.permissions...)
}

// IsKnownPermission reports whether p is part of the permission universe
func (r *Registry) IsKnownPermission(p Permission) bool {
	_, ok := r.validPerms[p]
	return ok
}

// ValidateRole validates a role string against configured roles
func (r *Registry) ValidateRole(role string) (Role, error) {
	rl := Role(role)
	if _, ok := r.grants[rl]; ok {
		return rl, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
}
