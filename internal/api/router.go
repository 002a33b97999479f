package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/decrypto-hq/decrypto-api/docs"
	"github.com/decrypto-hq/decrypto-api/internal/api/handler"
	"github.com/decrypto-hq/decrypto-api/internal/api/middleware"
	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
	"github.com/decrypto-hq/decrypto-api/internal/infrastructure/http/handlers"
)

// RouterConfig carries the assembled services the router exposes over HTTP.
// Mongo and Redis are only needed by the readiness probe; leaving them nil
// skips that route, which keeps httptest setups small.
type RouterConfig struct {
	Auth         ports.AuthService
	Users        ports.UserService
	Guard        ports.GuardService
	Window       domain.EventWindow
	Now          func() time.Time
	LoginLimiter *middleware.LoginLimiter
	Mongo        *mongo.Database
	Redis        *redis.Client
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("decrypto"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.Auth)
	userHandler := handler.NewUserHandler(cfg.Users)
	eventHandler := handler.NewEventHandler(cfg.Window, cfg.Now)
	authenticate := middleware.Authenticate(cfg.Guard)

	// --- Auth routes ---
	auth := e.Group("/auth")
	if cfg.LoginLimiter != nil {
		auth.POST("/login", authHandler.Login, cfg.LoginLimiter.Middleware())
	} else {
		auth.POST("/login", authHandler.Login)
	}
	auth.POST("/test-token", authHandler.TestToken, authenticate)
	auth.POST("/register", authHandler.Register)
	auth.POST("/password-recovery/:email", authHandler.RecoverPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- User routes (all authenticated) ---
	users := e.Group("/users", authenticate)
	users.GET("", userHandler.List, middleware.RequireSuperuser(cfg.Guard))
	users.POST("", userHandler.Create, middleware.RequireSuperuser(cfg.Guard))
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("/leaderboard", userHandler.Leaderboard, middleware.RequireEventActive(cfg.Guard))
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update, middleware.RequireSuperuser(cfg.Guard))
	users.DELETE("/:id", userHandler.Delete, middleware.RequireSuperuser(cfg.Guard))

	// --- Event window (public, drives client countdowns) ---
	e.GET("/event/start-time", eventHandler.StartTime)
	e.GET("/event/end-time", eventHandler.EndTime)
	e.GET("/event/phase", eventHandler.Phase)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness – is the process alive?
	if cfg.Mongo != nil && cfg.Redis != nil {
		readinessHandler := handlers.NewReadinessHandler(cfg.Mongo, cfg.Redis)
		e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	}

	return e
}
