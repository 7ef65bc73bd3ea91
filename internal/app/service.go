package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"business-service/internal/audit"
	"business-service/internal/config"
	apphttp "business-service/internal/http"
	"business-service/internal/rbac"
	"business-service/internal/repository/postgres"
)

// Service is the running HTTP service and the resources it owns
type Service struct {
	config   *config.Config
	logger   *slog.Logger
	registry *rbac.Registry
	db       *postgres.DB
	recorder *audit.Recorder
	server   *apphttp.Server
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	addr := net.JoinHostPort("", s.config.Server.Port)
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting server",
			slog.String("addr", addr),
			slog.String("preset", s.config.RBAC.Preset),
			slog.Int("roles", len(s.registry.Roles())),
			slog.Int("permissions", len(s.registry.Permissions())),
		)
		if err := s.server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.Shutdown(shutdownCtx)
	<-errCh
	return err
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping server")
	err := s.server.Shutdown(ctx)
	s.close()
	if err != nil {
		s.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

func (s *Service) close() {
	s.recorder.Wait()
	if s.db != nil {
		s.db.Close()
	}
}
