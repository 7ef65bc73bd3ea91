package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"business-service/internal/audit"
	"business-service/internal/auth"
	"business-service/internal/config"
	"business-service/internal/rbac"
	"business-service/internal/rbac/presets"
	apperrors "business-service/pkg/errors"
	"business-service/pkg/metrics"
)

const testSecret = "k3J9x!qLm2#Vb8RzT4wYp0&nC6sHd1Ga"

type ServerTestSuite struct {
	suite.Suite

	jwt     *auth.JWTService
	logs    *bytes.Buffer
	handler stdhttp.Handler
}

func (s *ServerTestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.jwt = auth.NewJWTService(testSecret, time.Hour)
	s.handler = s.newHandler(config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000})
}

func (s *ServerTestSuite) newHandler(limits config.RateLimitConfig) stdhttp.Handler {
	cfg := &config.Config{
		Server:    config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second, Profiling: true},
		RateLimit: limits,
	}

	logger := slog.New(slog.NewTextHandler(s.logs, nil))

	server := NewServer(&ServerDependencies{
		Config:        cfg,
		Logger:        logger,
		Registry:      rbac.MustNew(presets.Business()),
		Authenticator: auth.NewMiddleware(s.jwt, nil, logger).Authenticate(),
		Metrics:       metrics.New(),
		Audit:         audit.NewRecorder(nil, logger, time.Second),
	})
	return server.Handler()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) do(method, path string, role rbac.Role, body string) *httptest.ResponseRecorder {
	var req *stdhttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if role != "" {
		tok, err := s.jwt.Generate(uuid.New(), role)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) TestHealthIsPublic() {
	rec := s.do(stdhttp.MethodGet, "/health", "", "")
	s.Equal(stdhttp.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func (s *ServerTestSuite) TestRouteGuards() {
	tests := []struct {
		name   string
		method string
		path   string
		role   rbac.Role
		body   string
		status int
	}{
		{"me without token", stdhttp.MethodGet, "/api/v1/me/permissions", "", "", stdhttp.StatusUnauthorized},
		{"me as user", stdhttp.MethodGet, "/api/v1/me/permissions", rbac.RoleUser, "", stdhttp.StatusOK},
		{"roles as user", stdhttp.MethodGet, "/api/v1/roles", rbac.RoleUser, "", stdhttp.StatusForbidden},
		{"roles as manager", stdhttp.MethodGet, "/api/v1/roles", rbac.RoleManager, "", stdhttp.StatusForbidden},
		{"roles as admin", stdhttp.MethodGet, "/api/v1/roles", rbac.RoleAdmin, "", stdhttp.StatusOK},
		{"role as user", stdhttp.MethodGet, "/api/v1/roles/user", rbac.RoleUser, "", stdhttp.StatusForbidden},
		{"role as manager", stdhttp.MethodGet, "/api/v1/roles/user", rbac.RoleManager, "", stdhttp.StatusOK},
		{"unknown role as admin", stdhttp.MethodGet, "/api/v1/roles/root", rbac.RoleAdmin, "", stdhttp.StatusNotFound},
		{"unknown role caller", stdhttp.MethodGet, "/api/v1/roles/user", "superuser", "", stdhttp.StatusForbidden},
		{"authorize", stdhttp.MethodPost, "/api/v1/authorize", rbac.RoleUser, `{"permissions":["customer:view"],"match":"all"}`, stdhttp.StatusOK},
		{"memory as manager", stdhttp.MethodGet, "/debug/memory", rbac.RoleManager, "", stdhttp.StatusForbidden},
		{"memory as admin", stdhttp.MethodGet, "/debug/memory", rbac.RoleAdmin, "", stdhttp.StatusOK},
		{"authorize without token", stdhttp.MethodPost, "/api/v1/authorize", "", `{"permissions":[],"match":"all"}`, stdhttp.StatusUnauthorized},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(tt.method, tt.path, tt.role, tt.body)
			s.Equal(tt.status, rec.Code, rec.Body.String())
		})
	}
}

func (s *ServerTestSuite) TestForbiddenPayload() {
	rec := s.do(stdhttp.MethodGet, "/api/v1/roles/user", rbac.RoleUser, "")
	s.Require().Equal(stdhttp.StatusForbidden, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("Insufficient permissions", body["error"])
	s.Equal("admin or manager", body["required"])
	s.Equal("user", body["userRole"])
	s.Contains(s.logs.String(), "authorization denied")
}

func (s *ServerTestSuite) TestInvalidTokenIsRejectedBeforeGuards() {
	req := httptest.NewRequest(stdhttp.MethodGet, "/api/v1/me/permissions", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Equal(stdhttp.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "invalid or expired token")
}

func (s *ServerTestSuite) TestMetricsEndpoint() {
	s.do(stdhttp.MethodGet, "/api/v1/roles", rbac.RoleUser, "")

	rec := s.do(stdhttp.MethodGet, "/metrics", "", "")
	s.Equal(stdhttp.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `business_authorization_decisions_total{outcome="denied",reason="forbidden"} 1`)
}

func (s *ServerTestSuite) TestUnknownRouteUsesErrorHandler() {
	rec := s.do(stdhttp.MethodGet, "/nope", "", "")
	s.Equal(stdhttp.StatusNotFound, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.NotEmpty(body["request_id"])
}

func (s *ServerTestSuite) withToken(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) TestRejectedTokensAreRateLimited() {
	s.handler = s.newHandler(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2})

	var codes []int
	for i := 0; i < 6; i++ {
		codes = append(codes, s.withToken("/api/v1/roles", "not-a-token").Code)
	}

	s.Equal([]int{stdhttp.StatusUnauthorized, stdhttp.StatusUnauthorized}, codes[:2])
	s.Equal(stdhttp.StatusTooManyRequests, codes[len(codes)-1])

	rec := s.withToken("/api/v1/roles", "not-a-token")
	s.Require().Equal(stdhttp.StatusTooManyRequests, rec.Code)
	s.Contains(rec.Body.String(), "rate limit exceeded")
	s.Equal("1", rec.Header().Get("Retry-After"))
}

func (s *ServerTestSuite) TestPublicRoutesIgnoreBadTokens() {
	for _, path := range []string{"/health", "/metrics"} {
		s.Run(path, func() {
			rec := s.withToken(path, "garbage")
			s.Equal(stdhttp.StatusOK, rec.Code)
		})
	}
}

func (s *ServerTestSuite) TestErrorBodiesComeFromErrorHandler() {
	rec := s.do(stdhttp.MethodPost, "/api/v1/authorize", rbac.RoleUser, `{"permissions":["invoice"],"match":"any"}`)
	s.Require().Equal(stdhttp.StatusBadRequest, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("permissions[0] failed permission", body["error"])
	s.Equal(rec.Header().Get("X-Request-ID"), body["request_id"])

	rec = s.do(stdhttp.MethodGet, "/api/v1/roles/root", rbac.RoleAdmin, "")
	s.Require().Equal(stdhttp.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "role not found")
}

func (s *ServerTestSuite) TestMetricsCountMappedStatus() {
	s.do(stdhttp.MethodGet, "/api/v1/roles/root", rbac.RoleAdmin, "")

	rec := s.do(stdhttp.MethodGet, "/metrics", "", "")
	s.Contains(rec.Body.String(), `business_http_requests_total{method="GET",path="/api/v1/roles/:role",status="404"} 1`)
}

func TestStatusFor(t *testing.T) {
	denied := rbac.RequireAdmin(nil).Check(&rbac.Identity{Role: rbac.RoleUser})
	code, _ := statusFor(denied)
	assert.Equal(t, stdhttp.StatusForbidden, code)

	code, _ = statusFor(rbac.RequireAdmin(nil).Check(nil))
	assert.Equal(t, stdhttp.StatusUnauthorized, code)

	code, _ = statusFor(apperrors.RateLimited("rate limit exceeded"))
	assert.Equal(t, stdhttp.StatusTooManyRequests, code)

	code, msg := statusFor(apperrors.Validation("match failed oneof", assert.AnError))
	assert.Equal(t, stdhttp.StatusBadRequest, code)
	assert.Equal(t, "match failed oneof", msg)

	code, msg = statusFor(assert.AnError)
	assert.Equal(t, stdhttp.StatusInternalServerError, code)
	require.Equal(t, "Internal server error", msg)
}
