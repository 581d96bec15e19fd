package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dailykharcha/kharcha/internal/api"
	"github.com/dailykharcha/kharcha/internal/core/service"
	"github.com/dailykharcha/kharcha/internal/infrastructure/config"
	mongodb "github.com/dailykharcha/kharcha/internal/infrastructure/db/mongo"
	redisdb "github.com/dailykharcha/kharcha/internal/infrastructure/db/redis"
	"github.com/dailykharcha/kharcha/internal/infrastructure/identity"
	"github.com/dailykharcha/kharcha/pkg/logger"
)

// @title        Daily Kharcha API
// @version      1.0
// @description  Registration and login API for the Daily Kharcha expense tracker.
// @BasePath     /
func main() {
	// Missing .env is fine: production injects real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	gateway, err := identity.NewGateway(cfg.Identity.Backend, cfg.Identity.APIKey, cfg.Identity.BaseURL, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build identity gateway")
	}

	profiles := mongodb.NewProfileRepository(db)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Limiter.MaxFailures, cfg.Limiter.Window)
	accounts := service.NewAccountService(gateway, profiles, log,
		service.WithLoginLimiter(limiter),
		service.WithProfilePersistence(cfg.PersistProfiles),
	)

	e, err := api.NewRouter(cfg, accounts, db, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("identity_backend", cfg.Identity.Backend).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}
