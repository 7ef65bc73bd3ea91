package echo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-service/internal/audit"
	"business-service/internal/rbac"
	"business-service/internal/rbac/presets"
)

type countingMetrics struct {
	mu      sync.Mutex
	allowed int
	denied  map[string]int
}

func (m *countingMetrics) RecordDecision(allowed bool, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if allowed {
		m.allowed++
		return
	}
	if m.denied == nil {
		m.denied = make(map[string]int)
	}
	m.denied[reason]++
}

type capturingAudit struct {
	events []*audit.Event
}

func (a *capturingAudit) Record(event *audit.Event) {
	a.events = append(a.events, event)
}

func newEnforcer(t *testing.T) (*Enforcer, *countingMetrics, *capturingAudit) {
	t.Helper()
	reg, err := rbac.New(presets.Business())
	require.NoError(t, err)

	m := &countingMetrics{}
	a := &capturingAudit{}
	return NewEnforcer(reg, Options{Metrics: m, Audit: a}), m, a
}

// serve runs mw with the given identity and reports whether the protected
// handler ran.
func serve(t *testing.T, mw echo.MiddlewareFunc, id *rbac.Identity) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/invoices/1/approve", nil), rec)
	SetIdentity(c, id)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)

	return rec, called
}

func who(role rbac.Role) *rbac.Identity {
	return &rbac.Identity{UserID: uuid.New(), Role: role}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEnforceAllowed(t *testing.T) {
	enf, m, a := newEnforcer(t)

	rec, called := serve(t, enf.RequirePermission(presets.InvoiceApprove), who(presets.RoleManager))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, m.allowed)
	assert.Empty(t, a.events)
}

func TestEnforceUnauthenticated(t *testing.T) {
	enf, m, a := newEnforcer(t)

	guards := map[string]echo.MiddlewareFunc{
		"permission":       enf.RequirePermission(presets.InvoiceApprove),
		"any":              enf.RequireAnyPermission(presets.QuoteEdit, presets.QuoteApprove),
		"all":              enf.RequireAllPermissions(presets.CustomerView),
		"admin":            enf.RequireAdmin(),
		"manager or admin": enf.RequireManagerOrAdmin(),
		"authenticated":    enf.RequireAuthenticated(),
	}

	for name, mw := range guards {
		t.Run(name, func(t *testing.T) {
			rec, called := serve(t, mw, nil)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, map[string]any{"error": "Authentication required"}, decode(t, rec))
		})
	}

	assert.Equal(t, len(guards), m.denied["unauthenticated"])
	require.Len(t, a.events, len(guards))
	assert.Nil(t, a.events[0].UserID)
}

func TestEnforceForbiddenPayloads(t *testing.T) {
	enf, _, _ := newEnforcer(t)

	tests := []struct {
		name     string
		mw       echo.MiddlewareFunc
		role     rbac.Role
		required any
		match    any
	}{
		{
			name:     "single permission",
			mw:       enf.RequirePermission(presets.InvoiceApprove),
			role:     presets.RoleUser,
			required: "invoice:approve",
		},
		{
			name:     "any permission",
			mw:       enf.RequireAnyPermission(presets.QuoteApprove, presets.QuoteDelete),
			role:     presets.RoleUser,
			required: []any{"quote:approve", "quote:delete"},
			match:    "any",
		},
		{
			name:     "all permissions",
			mw:       enf.RequireAllPermissions(presets.InvoiceView, presets.InvoiceDelete),
			role:     presets.RoleManager,
			required: []any{"invoice:view", "invoice:delete"},
			match:    "all",
		},
		{
			name:     "manager or admin",
			mw:       enf.RequireManagerOrAdmin(),
			role:     presets.RoleUser,
			required: "admin or manager",
		},
		{
			name:     "unknown role",
			mw:       enf.RequirePermission(presets.CustomerView),
			role:     "superuser",
			required: "customer:view",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := serve(t, tt.mw, who(tt.role))

			assert.False(t, called)
			assert.Equal(t, http.StatusForbidden, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, "Insufficient permissions", body["error"])
			assert.Equal(t, tt.required, body["required"])
			assert.Equal(t, string(tt.role), body["userRole"])
			assert.Equal(t, tt.match, body["match"])
		})
	}
}

func TestEnforceRecordsDenials(t *testing.T) {
	enf, m, a := newEnforcer(t)
	id := who(presets.RoleUser)

	serve(t, enf.RequireAdmin(), id)

	assert.Equal(t, 1, m.denied["forbidden"])
	require.Len(t, a.events, 1)
	require.NotNil(t, a.events[0].UserID)
	assert.Equal(t, id.UserID, *a.events[0].UserID)
	assert.Equal(t, "admin", a.events[0].Required)
}

func TestEnforceWithoutSideChannels(t *testing.T) {
	reg := rbac.MustNew(presets.Business())
	mw := Enforce(rbac.RequireAdmin(reg), Options{})

	rec, called := serve(t, mw, who(presets.RoleManager))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, called = serve(t, mw, who(presets.RoleAdmin))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIdentityContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Nil(t, IdentityFrom(c))

	SetIdentity(c, nil)
	assert.Nil(t, IdentityFrom(c))

	id := who(presets.RoleUser)
	SetIdentity(c, id)
	assert.Same(t, id, IdentityFrom(c))

	c.Set(ContextKeyIdentity, "not an identity")
	assert.Nil(t, IdentityFrom(c))
}

func TestEnforceAuditsRequestID(t *testing.T) {
	enf, _, a := newEnforcer(t)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil), httptest.NewRecorder())
	SetIdentity(c, who(presets.RoleUser))
	SetRequestID(c, "req-42")

	require.NoError(t, enf.RequireAdmin()(func(c echo.Context) error { return nil })(c))

	require.Len(t, a.events, 1)
	assert.Equal(t, "req-42", a.events[0].RequestID)
}

func TestRequestIDContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Empty(t, RequestIDFrom(c))

	SetRequestID(c, "abc")
	assert.Equal(t, "abc", RequestIDFrom(c))
}
