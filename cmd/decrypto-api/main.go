package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decrypto-hq/decrypto-api/internal/api"
	"github.com/decrypto-hq/decrypto-api/internal/api/middleware"
	"github.com/decrypto-hq/decrypto-api/internal/core/service"
	"github.com/decrypto-hq/decrypto-api/internal/infrastructure/config"
	mongodb "github.com/decrypto-hq/decrypto-api/internal/infrastructure/db/mongo"
	redisdb "github.com/decrypto-hq/decrypto-api/internal/infrastructure/db/redis"
	"github.com/decrypto-hq/decrypto-api/internal/infrastructure/mail"
	"github.com/decrypto-hq/decrypto-api/internal/infrastructure/queue"
	"github.com/decrypto-hq/decrypto-api/pkg/logger"
)

const (
	serviceName     = "decrypto-api"
	shutdownTimeout = 30 * time.Second
)

// @title           Decrypto API
// @version         1.0
// @description     Authentication and temporal access control for the Decrypto event backend.

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization

func main() {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(rootCtx)
	if err != nil {
		logger.Init(logger.Options{Service: serviceName}).Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: serviceName,
		Pretty:  cfg.Env == "development",
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	window, err := cfg.Window()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid event window")
	}

	// --- Stores ---
	client, db, err := mongodb.Connect(rootCtx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.AwaitReachable(rootCtx, client, cfg.Mongo.ReadyWait, log); err != nil {
		log.Fatal().Err(err).Msg("mongo not reachable")
	}

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(rootCtx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}
	auditRepo := mongodb.NewAuditRepository(db)

	rdb, err := redisdb.Connect(rootCtx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	// --- Audit pipeline ---
	dispatcher := queue.NewDispatcher(0, auditRepo, log)
	dispatcher.Start(rootCtx)

	// --- Core services ---
	hasher := service.NewArgon2Hasher()
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.ResetTokenTTL, nil)
	usedTokens := redisdb.NewUsedTokenStore(rdb, cfg.Auth.ResetTokenTTL)
	mailer := mail.NewLogMailer(log)

	authService := service.NewAuthService(service.AuthServiceParams{
		Users:            userRepo,
		Hasher:           hasher,
		Tokens:           tokens,
		Resets:           usedTokens,
		Mailer:           mailer,
		Audit:            dispatcher,
		AccessTokenTTL:   cfg.Auth.AccessTokenTTL,
		OpenRegistration: cfg.Auth.OpenRegistration,
		Log:              log,
	})
	userService := service.NewUserService(userRepo, hasher, nil, log)
	guard := service.NewGuardService(tokens, userRepo, window, dispatcher, nil, log)

	bootstrap := service.NewBootstrap(userRepo, hasher, nil, log)
	if err := bootstrap.Run(rootCtx, service.FirstSuperuser{
		Email:    cfg.Auth.FirstSuperuserEmail,
		Username: cfg.Auth.FirstSuperuserUsername,
		FullName: cfg.Auth.FirstSuperuserName,
		Password: cfg.Auth.FirstSuperuserPassword,
	}); err != nil {
		log.Fatal().Err(err).Msg("bootstrap first superuser")
	}

	// --- HTTP ---
	limiter := middleware.NewLoginLimiter(middleware.DefaultLoginLimiterConfig())
	defer limiter.Stop()

	e := api.NewRouter(api.RouterConfig{
		Auth:         authService,
		Users:        userService,
		Guard:        guard,
		Window:       window,
		LoginLimiter: limiter,
		Mongo:        db,
		Redis:        rdb,
		Log:          log,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("api server stopped unexpectedly")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("stopped")
}
