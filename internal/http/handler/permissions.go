package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"business-service/internal/rbac"
	transport "business-service/internal/transport/echo"
	apperrors "business-service/pkg/errors"
	pkgvalidator "business-service/pkg/validator"
)

// AuthorizeRequest asks whether the caller satisfies a compound requirement.
// An empty list is allowed and follows the registry's rules: nothing to
// match under "any" denies, nothing to match under "all" allows.
type AuthorizeRequest struct {
	Permissions []string `json:"permissions" validate:"max=64,dive,required,permission"`
	Match       string   `json:"match"       validate:"required,oneof=any all"`
}

type PermissionHandler struct {
	registry *rbac.Registry
	validate *validator.Validate
}

func NewPermissionHandler(registry *rbac.Registry) *PermissionHandler {
	return &PermissionHandler{
		registry: registry,
		validate: pkgvalidator.New(),
	}
}

// Me returns the caller's role and effective permissions.
func (h *PermissionHandler) Me(c echo.Context) error {
	id := transport.IdentityFrom(c)
	if id == nil {
		return respondError(c, http.StatusUnauthorized, msgAuthenticationRequired)
	}

	return c.JSON(http.StatusOK, MeResponse{
		UserID:      id.UserID.String(),
		Role:        id.Role,
		Permissions: permissionStrings(h.registry.RolePermissions(id.Role)),
	})
}

// ListRoles returns the full role to permission matrix.
func (h *PermissionHandler) ListRoles(c echo.Context) error {
	roles := h.registry.Roles()
	resp := RolesResponse{Roles: make([]RolePermissionsResponse, 0, len(roles))}
	for _, role := range roles {
		resp.Roles = append(resp.Roles, RolePermissionsResponse{
			Role:        role,
			Permissions: permissionStrings(h.registry.RolePermissions(role)),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRole returns a single role's permissions. Unknown roles are apperrors.ErrNotFound.
func (h *PermissionHandler) GetRole(c echo.Context) error {
	role, err := h.registry.ValidateRole(c.Param(paramRole))
	if err != nil {
		return apperrors.NotFound(msgRoleNotFound)
	}

	return c.JSON(http.StatusOK, RolePermissionsResponse{
		Role:        role,
		Permissions: permissionStrings(h.registry.RolePermissions(role)),
	})
}

// Authorize evaluates an any/all permission requirement for the caller.
func (h *PermissionHandler) Authorize(c echo.Context) error {
	var req AuthorizeRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if err := h.validate.Struct(&req); err != nil {
		return apperrors.Validation(pkgvalidator.Describe(err), err)
	}

	perms := make([]rbac.Permission, len(req.Permissions))
	for i, p := range req.Permissions {
		perms[i] = rbac.Permission(p)
	}

	guard := rbac.RequireAnyPermission(h.registry, perms...)
	if rbac.Match(req.Match) == rbac.MatchAll {
		guard = rbac.RequireAllPermissions(h.registry, perms...)
	}

	decision := guard.Evaluate(transport.IdentityFrom(c))
	if decision.Reason == rbac.ReasonUnauthenticated {
		return respondError(c, http.StatusUnauthorized, msgAuthenticationRequired)
	}

	return c.JSON(http.StatusOK, AuthorizeResponse{
		Allowed: decision.Allowed,
		Match:   decision.Requirement.Match(),
		Role:    decision.UserRole,
	})
}
