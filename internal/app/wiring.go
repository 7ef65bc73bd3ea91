package app

import (
	"context"
	"fmt"
	"log/slog"

	"business-service/internal/audit"
	"business-service/internal/auth"
	"business-service/internal/config"
	apphttp "business-service/internal/http"
	"business-service/internal/rbac"
	"business-service/internal/rbac/presets"
	"business-service/internal/repository/postgres"
	"business-service/pkg/metrics"
)

const (
	errUnknownPresetFmt     = "unknown rbac preset %q"
	errBuildRegistryFmt     = "failed to build rbac registry: %w"
	errConnectDatabaseFmt   = "failed to connect to database: %w"
	errDatabaseRequiredText = "database is not configured (set DB_PASSWORD)"
)

// NewRegistry builds the permission registry for a named preset
func NewRegistry(preset string) (*rbac.Registry, error) {
	p, ok := presets.Lookup(preset)
	if !ok {
		return nil, fmt.Errorf(errUnknownPresetFmt, preset)
	}

	reg, err := rbac.New(p.Config())
	if err != nil {
		return nil, fmt.Errorf(errBuildRegistryFmt, err)
	}
	return reg, nil
}

// OpenDatabase connects to postgres. It fails when no database is configured.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	if !cfg.Database.Enabled() {
		return nil, fmt.Errorf("%s", errDatabaseRequiredText)
	}
	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf(errConnectDatabaseFmt, err)
	}
	return db, nil
}

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	registry, err := NewRegistry(cfg.RBAC.Preset)
	if err != nil {
		return nil, err
	}

	var db *postgres.DB
	if cfg.Database.Enabled() {
		db, err = OpenDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("database not configured; denials are logged but not stored")
	}

	var execer audit.Execer
	var roles auth.RoleLookup
	if db != nil {
		execer = db.Pool
		if cfg.RBAC.RoleLookup {
			roles = postgres.NewUserRepository(db.Pool)
		}
	}

	recorder := audit.NewRecorder(execer, logger, cfg.RBAC.AuditTimeout)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)

	server := apphttp.NewServer(&apphttp.ServerDependencies{
		Config:        cfg,
		Logger:        logger,
		Registry:      registry,
		Authenticator: auth.NewMiddleware(jwtService, roles, logger).Authenticate(),
		Metrics:       metrics.New(),
		Audit:         recorder,
	})

	return &Service{
		config:   cfg,
		logger:   logger,
		registry: registry,
		db:       db,
		recorder: recorder,
		server:   server,
	}, nil
}
