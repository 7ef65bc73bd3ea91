package http

import (
	"context"
	"log/slog"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"business-service/internal/audit"
	"business-service/internal/config"
	"business-service/internal/http/handler"
	"business-service/internal/http/middleware"
	"business-service/internal/rbac"
	transport "business-service/internal/transport/echo"
	"business-service/pkg/metrics"
	"business-service/pkg/profiling"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "64K"
)

type ServerDependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *rbac.Registry
	// Authenticator attaches an rbac.Identity to the request when the
	// caller presents valid credentials.
	Authenticator echo.MiddlewareFunc
	Metrics       *metrics.Metrics
	Audit         *audit.Recorder
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first, so all logs have it
	e.Use(middleware.RequestID())
	e.Use(slogecho.NewWithConfig(deps.Logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))
	e.Use(deps.Metrics.Middleware())

	// Per client address ahead of authentication, then per caller on /api/v1.
	ipLimiter := middleware.NewRateLimiter(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.Burst)
	userLimiter := middleware.NewRateLimiter(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.Burst)
	e.Use(ipLimiter.Middleware(middleware.ByClientIP))

	e.GET("/health", healthCheck)
	deps.Metrics.RegisterMetricsRoute(e)

	opts := transport.Options{
		Logger:  deps.Logger,
		Metrics: deps.Metrics,
	}
	if deps.Audit != nil {
		opts.Audit = deps.Audit
	}
	enforcer := transport.NewEnforcer(deps.Registry, opts)

	permissionHandler := handler.NewPermissionHandler(deps.Registry)

	api := e.Group("/api/v1", deps.Authenticator, userLimiter.Middleware(middleware.ByIdentity))
	api.GET("/me/permissions", permissionHandler.Me, enforcer.RequireAuthenticated())
	api.POST("/authorize", permissionHandler.Authorize, enforcer.RequireAuthenticated())
	api.GET("/roles", permissionHandler.ListRoles, enforcer.RequireAdmin())
	api.GET("/roles/:role", permissionHandler.GetRole, enforcer.RequireManagerOrAdmin())

	if deps.Config.Server.Profiling {
		profiling.Register(e.Group("/debug", deps.Authenticator, enforcer.RequireAdmin()))
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
