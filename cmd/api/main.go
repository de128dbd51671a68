package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kafebilyar/api/internal/api"
	redisdb "github.com/kafebilyar/api/internal/infrastructure/db/redis"
	"github.com/kafebilyar/api/internal/infrastructure/db/supabase"
	"github.com/kafebilyar/api/internal/pkg/config"
	"github.com/kafebilyar/api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; this is the one unstructured exit path.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	store, err := supabase.New(supabase.Config{
		URL:        cfg.Supabase.URL,
		APIKey:     cfg.Supabase.Key,
		ServiceKey: cfg.Supabase.ServiceKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("credential store setup failed")
	}
	if err := store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("credential store unreachable at startup")
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
	} else {
		log.Info().Msg("REDIS_ADDR not set, login throttle disabled")
	}

	e, err := api.NewRouter(store, rdb, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
