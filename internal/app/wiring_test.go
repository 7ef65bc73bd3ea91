package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-service/internal/config"
	"business-service/internal/rbac"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry("business")
	require.NoError(t, err)
	assert.True(t, reg.HasPermission(rbac.RoleManager, "invoice:approve"))

	reg, err = NewRegistry("readonly")
	require.NoError(t, err)
	assert.False(t, reg.HasPermission(rbac.RoleManager, "invoice:approve"))

	_, err = NewRegistry("nope")
	assert.ErrorContains(t, err, "unknown rbac preset")
}

func TestOpenDatabaseRequiresConfig(t *testing.T) {
	_, err := OpenDatabase(context.Background(), &config.Config{})
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestInitializeServiceWithoutDatabase(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		JWT:       config.JWTConfig{Secret: "k3J9x!qLm2#Vb8RzT4wYp0&nC6sHd1Ga", ExpiryDuration: time.Hour},
		RBAC:      config.RBACConfig{Preset: "business"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10},
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	svc, err := InitializeService(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, svc.db)
	assert.Contains(t, logs.String(), "database not configured")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}
