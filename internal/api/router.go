// Package api wires the HTTP transport: routes, middleware, error handling,
// and metrics.
package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MattStellino/TrackIt/internal/api/handler"
	"github.com/MattStellino/TrackIt/internal/api/middleware"
	"github.com/MattStellino/TrackIt/internal/core/service"
	mongodb "github.com/MattStellino/TrackIt/internal/infrastructure/db/mongo"
	"github.com/MattStellino/TrackIt/internal/pkg/config"
	"github.com/MattStellino/TrackIt/internal/ratelimit"
)

// Deps bundles optional service overrides for NewRouter. Tests inject a
// pre-built AuthService here to reach the reset-token sink.
type Deps struct {
	AuthService *service.AuthService
}

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil when the in-memory rate-limit store is configured. The
// counter store is owned by the caller, which closes it on shutdown.
func NewRouter(db *mongo.Database, rdb *redis.Client, counters ratelimit.CounterStore, cfg *config.Config, log zerolog.Logger, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("trackit"))

	// --- Rate limiting ---
	rl := cfg.RateLimit
	authLimit := middleware.RateLimit(counters, "auth", rl.AuthMax, rl.Window, log)
	createLimit := middleware.RateLimit(counters, "create", rl.CreateMax, rl.Window, log)
	apiLimit := middleware.RateLimit(counters, "api", rl.GeneralMax, rl.Window, log)

	// --- Dependencies ---
	authService := deps.AuthService
	if authService == nil {
		userRepo := mongodb.NewUserRepository(db)
		authService = service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, log)
	}
	txRepo := mongodb.NewTransactionRepository(db)
	txService := service.NewTransactionService(txRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	txHandler := handler.NewTransactionHandler(txService)
	requireAuth := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register, authLimit)
	auth.POST("/login", authHandler.Login, authLimit)
	auth.POST("/refresh-token", authHandler.Refresh, authLimit)
	auth.POST("/forgot-password", authHandler.ForgotPassword, authLimit)
	auth.POST("/reset-password", authHandler.ResetPassword, authLimit)

	auth.POST("/logout", authHandler.Logout, requireAuth, apiLimit)
	auth.GET("/profile", authHandler.GetProfile, requireAuth, apiLimit)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth, apiLimit)
	auth.PUT("/change-password", authHandler.ChangePassword, requireAuth, apiLimit)

	// --- Transaction routes ---
	tx := e.Group("/api/transactions", requireAuth, apiLimit)
	tx.POST("", txHandler.Create, createLimit)
	tx.GET("", txHandler.List)
	tx.GET("/stats", txHandler.Stats)
	tx.GET("/categories", txHandler.Categories)
	tx.DELETE("/bulk", txHandler.BulkDelete)
	tx.GET("/:id", txHandler.Get)
	tx.PUT("/:id", txHandler.Update)
	tx.DELETE("/:id", txHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
