package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	transport "business-service/internal/transport/echo"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = echo.HeaderXRequestID

	maxRequestIDLength = 128
)

// RequestID returns a middleware that generates or extracts a request ID
// and adds it to the response headers and context. Client supplied ids that
// are too long or contain non-printable characters are replaced.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)

			if !validRequestID(requestID) {
				requestID = uuid.New().String()
			}

			transport.SetRequestID(c, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
