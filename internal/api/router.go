package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/constructia/platform-api/internal/api/handler"
	"github.com/constructia/platform-api/internal/api/middleware"
	"github.com/constructia/platform-api/internal/core/domain"
	"github.com/constructia/platform-api/internal/core/ports"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Authenticator ports.Authenticator
	AdminGate     ports.AdminGate
	Sessions      ports.SessionManager
	Audit         ports.AuditLogger
	JWTSecret     string
	Mongo         *mongo.Database // may be nil
	Redis         *redis.Client   // may be nil
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Authenticator, deps.Sessions, deps.Audit, deps.JWTSecret, deps.Log)
	adminHandler := handler.NewAdminHandler(deps.AdminGate, authHandler)
	guard := middleware.SessionGuard(deps.JWTSecret, deps.Sessions, nil)

	// --- Auth routes ---
	e.POST("/auth/client/login", authHandler.ClientLogin)
	e.POST("/auth/admin/gate", adminHandler.OpenGate)
	e.POST("/auth/admin/gate/passphrase", adminHandler.SubmitPassphrase)
	e.POST("/auth/admin/login", adminHandler.Login)
	e.GET("/auth/session", authHandler.Session, guard)
	e.POST("/auth/logout", authHandler.Logout, guard)

	// --- Admin surface (session + permission gated) ---
	moduleHandler := handler.NewModuleHandler(deps.Audit)
	admin := e.Group("/admin", guard, middleware.RequireAdmin())
	admin.GET("/session", authHandler.Session)
	admin.POST("/modules/:module/mount", moduleHandler.Mount, middleware.RequirePermission(domain.PermRead))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
