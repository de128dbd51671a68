package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kafebilyar/api/internal/api/handler"
	"github.com/kafebilyar/api/internal/api/middleware"
	"github.com/kafebilyar/api/internal/core/service"
	redisdb "github.com/kafebilyar/api/internal/infrastructure/db/redis"
	"github.com/kafebilyar/api/internal/infrastructure/db/supabase"
	"github.com/kafebilyar/api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the login throttle is then disabled.
func NewRouter(store *supabase.Client, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("kafebilyar"))

	// --- Dependencies ---
	issuer, err := service.NewTokenIssuer(cfg.SecretKey, cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	var throttle service.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb)
	}
	authService := service.NewAuthService(store, issuer, throttle, cfg.AccessTokenTTL(), log)
	authHandler := handler.NewAuthHandler(authService)
	requireAuth := middleware.Auth(issuer)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/admin/login", authHandler.AdminLogin)

	// --- Placeholder modules (bearer token required) ---
	bookingHandler := handler.NewBookingHandler()
	e.GET("/api/bookings", bookingHandler.List, requireAuth)

	adminHandler := handler.NewAdminHandler()
	e.GET("/api/admin", adminHandler.Dashboard, requireAuth)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(store, rdb)

	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)              // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)    // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
