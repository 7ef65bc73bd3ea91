package echo

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"business-service/internal/audit"
	"business-service/internal/rbac"
)

// DecisionRecorder counts guard outcomes
type DecisionRecorder interface {
	RecordDecision(allowed bool, reason string)
}

// DenialRecorder receives denied requests for auditing
type DenialRecorder interface {
	Record(event *audit.Event)
}

// Options are the side channels notified by Enforce. All fields are
// optional and none of them can change a decision.
type Options struct {
	Logger  *slog.Logger
	Metrics DecisionRecorder
	Audit   DenialRecorder
}

// Enforce turns a guard into Echo middleware. The identity must have been
// attached by the authentication middleware before this runs.
func Enforce(guard rbac.Guard, opts Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			decision := guard.Evaluate(id)

			if opts.Metrics != nil {
				opts.Metrics.RecordDecision(decision.Allowed, string(decision.Reason))
			}

			if decision.Allowed {
				return next(c)
			}

			if opts.Audit != nil {
				opts.Audit.Record(audit.EventFromContext(c, RequestIDFrom(c), id, decision))
			} else if opts.Logger != nil {
				opts.Logger.Warn("authorization denied",
					slog.String("reason", string(decision.Reason)),
					slog.String("required", decision.Requirement.String()),
					slog.String("role", string(decision.UserRole)),
					slog.String("path", c.Request().URL.Path),
				)
			}

			if decision.Reason == rbac.ReasonUnauthenticated {
				return c.JSON(http.StatusUnauthorized, getUnauthenticatedResponse())
			}
			return c.JSON(http.StatusForbidden, getForbiddenResponse(decision))
		}
	}
}

// Enforcer binds Enforce to one registry so routes can declare guards
// with a single call.
type Enforcer struct {
	registry *rbac.Registry
	opts     Options
}

func NewEnforcer(registry *rbac.Registry, opts Options) *Enforcer {
	return &Enforcer{registry: registry, opts: opts}
}

func (e *Enforcer) RequirePermission(permission rbac.Permission) echo.MiddlewareFunc {
	return Enforce(rbac.RequirePermission(e.registry, permission), e.opts)
}

func (e *Enforcer) RequireAnyPermission(permissions ...rbac.Permission) echo.MiddlewareFunc {
	return Enforce(rbac.RequireAnyPermission(e.registry, permissions...), e.opts)
}

func (e *Enforcer) RequireAllPermissions(permissions ...rbac.Permission) echo.MiddlewareFunc {
	return Enforce(rbac.RequireAllPermissions(e.registry, permissions...), e.opts)
}

func (e *Enforcer) RequireRole(roles ...rbac.Role) echo.MiddlewareFunc {
	return Enforce(rbac.RequireRole(e.registry, roles...), e.opts)
}

func (e *Enforcer) RequireAdmin() echo.MiddlewareFunc {
	return Enforce(rbac.RequireAdmin(e.registry), e.opts)
}

func (e *Enforcer) RequireManagerOrAdmin() echo.MiddlewareFunc {
	return Enforce(rbac.RequireManagerOrAdmin(e.registry), e.opts)
}

// RequireAuthenticated admits any authenticated caller regardless of role.
func (e *Enforcer) RequireAuthenticated() echo.MiddlewareFunc {
	return Enforce(rbac.RequireAllPermissions(e.registry), e.opts)
}
