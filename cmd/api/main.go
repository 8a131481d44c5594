package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/cart"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis is optional: without it rate limiting is off and logout
	// cannot revoke tokens.
	var redisClient *redis.Client
	var denylist service.TokenDenylist
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, continuing without rate limiting")
			redisClient = nil
		} else {
			denylist = service.NewRedisDenylist(redisClient)
			defer redisClient.Close()
		}
	}

	ctx := context.Background()
	images, err := service.NewImageStore(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize image storage")
	}
	aggregator, err := cart.FromGorm(db)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize shopping cart aggregator")
	}

	srv := server.New(cfg, api.Dependencies{
		Auth:                service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, denylist),
		Users:               service.NewUserService(db, cfg.Users.ForbiddenUsernames),
		Follows:             service.NewFollowService(db),
		Catalog:             service.NewCatalogService(db),
		Recipes:             service.NewRecipeService(db, images, cfg.Recipes),
		Interactions:        service.NewInteractionService(db),
		Images:              images,
		Cart:                aggregator,
		Pagination:          cfg.Pagination,
		CreationLimiter:     middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimit),
		ModificationLimiter: middleware.NewRecipeModificationRateLimiter(redisClient, cfg.RateLimit),
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logging.Info().Msg("server stopped")
}
