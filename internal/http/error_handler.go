package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"business-service/internal/rbac"
	transport "business-service/internal/transport/echo"
	apperrors "business-service/pkg/errors"
)

// NewHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to appropriate HTTP status codes, hides internal
// errors, and logs with the request id.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := statusFor(err)

		requestID := transport.RequestIDFrom(c)
		if requestID == "" {
			requestID = "unknown"
		}

		if code >= http.StatusInternalServerError {
			logger.Error("internal_server_error",
				slog.String("request_id", requestID),
				slog.Int("status", code),
				slog.String("error", err.Error()))
			message = "Internal server error"
		} else {
			logger.Warn("client_error",
				slog.String("request_id", requestID),
				slog.Int("status", code),
				slog.String("error", err.Error()))
		}

		if err := c.JSON(code, map[string]any{
			"error":      message,
			"request_id": requestID,
		}); err != nil {
			logger.Error("failed to write error response", slog.String("error", err.Error()))
		}
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		code = http.StatusUnauthorized
		message = "Authentication required"
	case errors.Is(err, rbac.ErrForbidden):
		code = http.StatusForbidden
		message = "Insufficient permissions"
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, rbac.ErrInvalidRole):
		code = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
		message = "Bad request"
	case errors.Is(err, apperrors.ErrRateLimited):
		code = http.StatusTooManyRequests
		message = "Rate limit exceeded"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code < http.StatusInternalServerError {
		message = appErr.Message
	}

	return code, message
}
