package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/audiotheca/gateway/internal/api"
	"github.com/audiotheca/gateway/internal/core/ports"
	"github.com/audiotheca/gateway/internal/core/service"
	"github.com/audiotheca/gateway/internal/infrastructure/config"
	"github.com/audiotheca/gateway/internal/infrastructure/tokenstore"
	"github.com/audiotheca/gateway/internal/infrastructure/upstream"
	"github.com/audiotheca/gateway/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	up := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, log)

	var store ports.TokenStore
	var rdb *redis.Client
	switch cfg.Slot.Backend {
	case "redis":
		var err error
		rdb, err = tokenstore.Connect(ctx, tokenstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		store = tokenstore.NewRedisStore(rdb)
	default:
		path := cfg.Slot.File
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatal().Err(err).Msg("cannot resolve home directory for credential slot")
			}
			path = filepath.Join(home, ".audiotheca", "audiotheca.jwt")
		}
		store = tokenstore.NewFileStore(path)
	}

	sessions := service.NewSessionManager(up, store, log)
	sessions.Restore(ctx)

	debouncer := service.NewDebouncer(cfg.Search.QuietPeriod, up.Search, log)
	defer debouncer.Close()

	e := api.NewRouter(sessions, debouncer, up, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
