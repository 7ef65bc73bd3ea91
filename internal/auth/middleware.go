package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"business-service/internal/rbac"
	transport "business-service/internal/transport/echo"
	apperrors "business-service/pkg/errors"
)

// RoleLookup resolves the current role of a user from storage.
type RoleLookup interface {
	GetRole(ctx context.Context, userID uuid.UUID) (rbac.Role, error)
}

type Middleware struct {
	jwtService *JWTService
	roles      RoleLookup
	logger     *slog.Logger
}

// NewMiddleware creates the authentication middleware. roles may be nil, in
// which case the role carried by the token is trusted until it expires.
func NewMiddleware(jwtService *JWTService, roles RoleLookup, logger *slog.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		roles:      roles,
		logger:     logger,
	}
}

// Authenticate attaches an rbac.Identity when the request carries a valid
// bearer token. Requests without an Authorization header pass through
// unauthenticated so that guards can answer them.
func (m *Middleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(headerAuthorization)
			if header == "" {
				return next(c)
			}

			token := extractBearerToken(header)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgInvalidAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				m.logger.Debug("token rejected", slog.String("error", err.Error()))
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			id := claims.Identity()

			if m.roles != nil {
				role, err := m.roles.GetRole(c.Request().Context(), id.UserID)
				if err != nil {
					if errors.Is(err, apperrors.ErrNotFound) {
						return respondError(c, http.StatusUnauthorized, msgUserNotFound)
					}
					m.logger.Error("role lookup failed",
						slog.String("user_id", id.UserID.String()),
						slog.String("error", err.Error()),
					)
					return respondError(c, http.StatusUnauthorized, msgRoleLookupFailed)
				}
				id.Role = role
			}

			transport.SetIdentity(c, id)
			return next(c)
		}
	}
}

func extractBearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}
	return parts[1]
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}
