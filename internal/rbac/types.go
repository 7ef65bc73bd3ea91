package rbac

import "github.com/google/uuid"

// Role represents a caller classification (admin, manager, user)
type Role string

// Permission is a resource:action capability identifier
type Permission string

// RoleDefinition declares a role and the permissions it is granted.
// AllPermissions grants the full permission universe and must not be
// combined with an explicit Permissions list.
type RoleDefinition struct {
	Name           Role
	Permissions    []Permission
	AllPermissions bool
}

// Identity is the resolved caller attached to a request by authentication.
// A nil *Identity means the caller is unauthenticated.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// Match is the combinator used for multi-permission requirements
type Match string

const (
	MatchAny Match = "any"
	MatchAll Match = "all"
)

// Reason classifies a denial
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)
