package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"business-service/internal/rbac"
)

// RolePermissionsResponse lists one role's effective permissions
type RolePermissionsResponse struct {
	Role        rbac.Role `json:"role"`
	Permissions []string  `json:"permissions"`
}

// MeResponse is the caller's effective permission set, used by clients to
// gate their UI with the same table the server enforces.
type MeResponse struct {
	UserID      string    `json:"userId"`
	Role        rbac.Role `json:"role"`
	Permissions []string  `json:"permissions"`
}

type RolesResponse struct {
	Roles []RolePermissionsResponse `json:"roles"`
}

type AuthorizeResponse struct {
	Allowed bool       `json:"allowed"`
	Match   rbac.Match `json:"match"`
	Role    rbac.Role  `json:"role"`
}

func permissionStrings(perms []rbac.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

func handleHTTPError(c echo.Context, err error) error {
	if he, ok := err.(*echo.HTTPError); ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		return respondError(c, he.Code, msg)
	}

	// Anything else goes to the server's error handler.
	return err
}
