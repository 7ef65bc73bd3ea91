package echo

import (
	"business-service/internal/rbac"
)

const (
	msgAuthenticationRequired  = "Authentication required"
	msgInsufficientPermissions = "Insufficient permissions"
)

// UnauthenticatedResponse is the 401 body
type UnauthenticatedResponse struct {
	Error string `json:"error"`
}

// ForbiddenResponse is the 403 body. Required is a single permission string,
// a list of permissions for any/all checks, or a role description such as
// "admin or manager".
type ForbiddenResponse struct {
	Error    string     `json:"error"`
	Required any        `json:"required"`
	Match    rbac.Match `json:"match,omitempty"`
	UserRole rbac.Role  `json:"userRole"`
}

func getUnauthenticatedResponse() UnauthenticatedResponse {
	return UnauthenticatedResponse{Error: msgAuthenticationRequired}
}

func getForbiddenResponse(d rbac.Decision) ForbiddenResponse {
	return ForbiddenResponse{
		Error:    msgInsufficientPermissions,
		Required: requiredField(d.Requirement),
		Match:    d.Requirement.Match(),
		UserRole: d.UserRole,
	}
}

func requiredField(req rbac.Requirement) any {
	switch req.Kind {
	case rbac.RequireAnyKind, rbac.RequireAllKind:
		perms := make([]string, len(req.Permissions))
		for i, p := range req.Permissions {
			perms[i] = string(p)
		}
		return perms
	default:
		return req.String()
	}
}
