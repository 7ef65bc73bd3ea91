package echo

import (
	"github.com/labstack/echo/v4"

	"business-service/internal/rbac"
)

const ContextKeyIdentity = "rbac_identity"

// SetIdentity attaches the authenticated caller to the request. A nil
// identity leaves the request unauthenticated.
func SetIdentity(c echo.Context, id *rbac.Identity) {
	if id == nil {
		return
	}
	c.Set(ContextKeyIdentity, id)
}

// IdentityFrom returns the caller attached by SetIdentity, or nil when the
// request is unauthenticated.
func IdentityFrom(c echo.Context) *rbac.Identity {
	id, ok := c.Get(ContextKeyIdentity).(*rbac.Identity)
	if !ok {
		return nil
	}
	return id
}

const ContextKeyRequestID = "request_id"

// SetRequestID stores the id assigned by the request id middleware.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(ContextKeyRequestID, requestID)
}

// RequestIDFrom returns the id stored by SetRequestID, or "".
func RequestIDFrom(c echo.Context) string {
	if requestID, ok := c.Get(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}
