package rbac

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidConfig   = errors.New("invalid rbac config")
)

const (
	errConfigRolesEmpty                = "roles must not be empty"
	errConfigPermissionsEmpty          = "permissions must not be empty"
	errConfigRoleNameEmpty             = "role name must not be empty"
	errConfigDuplicateRoleNameFmt      = "duplicate role name: %s"
	errConfigPermissionEmpty           = "permission must not be empty"
	errConfigPermissionMalformedFmt    = "permission %q must have the form resource:action"
	errConfigDuplicatePermissionFmt    = "duplicate permission: %s"
	errConfigRoleUnknownPermissionFmt  = "role %s references unknown permission: %s"
	errConfigRoleDuplicatePermFmt      = "role %s lists permission %s more than once"
	errConfigRoleAllWithExplicitFmt    = "role %s sets AllPermissions and an explicit permission list"
	errMustNewPanicFmt                 = "rbac.MustNew: %v"
	errDeniedUnauthenticatedFmt        = "%s (required %s)"
	errDeniedForbiddenFmt              = "%s: role '%s' does not satisfy %s"
	requirementJoinAny                 = " or "
	requirementJoinAll                 = " and "
	requirementDescriptionNothingToAll = "(no permissions)"
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// DeniedError describes a rejected guard evaluation. It unwraps to
// ErrUnauthenticated or ErrForbidden. The fields are diagnostic only.
type DeniedError struct {
	Reason      Reason
	Requirement Requirement
	UserRole    Role
}

func (e *DeniedError) Error() string {
	if e.Reason == ReasonUnauthenticated {
		return fmt.Sprintf(errDeniedUnauthenticatedFmt, ErrUnauthenticated, e.Requirement)
	}
	return fmt.Sprintf(errDeniedForbiddenFmt, ErrForbidden, e.UserRole, e.Requirement)
}

func (e *DeniedError) Unwrap() error {
	if e.Reason == ReasonUnauthenticated {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

func joinPermissions(perms []Permission, sep string) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, sep)
}

func joinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, requirementJoinAny)
}
