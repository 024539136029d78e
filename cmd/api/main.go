// @title                      Postboard Content API
// @version                    1.0
// @description                Posts and user administration behind bearer-token authorization.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/postboard/content-api/docs"
	"github.com/postboard/content-api/internal/api"
	"github.com/postboard/content-api/internal/core/service"
	"github.com/postboard/content-api/internal/infrastructure/db/postgres"
	"github.com/postboard/content-api/internal/infrastructure/db/redis"
	"github.com/postboard/content-api/internal/infrastructure/http/handlers"
	"github.com/postboard/content-api/internal/pkg/config"
	"github.com/postboard/content-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, nil)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "content-api"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "content-api",
	})

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(cfg.Postgres.URL, logger.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	db, err := postgres.Connect(ctx, cfg.Postgres, logger.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer db.Close()

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userRepo := postgres.NewUserRepository(db)
	postRepo := postgres.NewPostRepository(db)

	jwt := service.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	users := service.NewUserService(userRepo, logger.Component("users"))
	posts := service.NewPostService(postRepo, postRepo, logger.Component("posts"))
	auth := service.NewAuthService(userRepo, users, jwt, redis.NewTokenRevoker(rdb), logger.Component("auth"))
	gate := service.NewAuthorizer(jwt, userRepo, logger.Component("gate"))

	e := api.NewRouter(api.Dependencies{
		Posts: posts,
		Users: users,
		Auth:  auth,
		Gate:  gate,
		Readiness: map[string]handlers.Checker{
			"postgres": db,
			"redis":    handlers.RedisChecker(rdb),
		},
		Logger:          logger.Component("http"),
		StrictForbidden: cfg.StrictForbidden,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
