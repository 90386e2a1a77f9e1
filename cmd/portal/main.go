package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vetcareservices/clinic-portal/internal/api"
	"github.com/vetcareservices/clinic-portal/internal/api/middleware"
	"github.com/vetcareservices/clinic-portal/internal/core/service"
	"github.com/vetcareservices/clinic-portal/internal/infrastructure/backend"
	"github.com/vetcareservices/clinic-portal/internal/infrastructure/config"
	redisdb "github.com/vetcareservices/clinic-portal/internal/infrastructure/db/redis"
	"github.com/vetcareservices/clinic-portal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.SessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET must be set")
	}

	ctx := context.Background()
	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	authGateway := backend.NewAuthGateway(client)
	clinicGateway := backend.NewClinicGateway(client)

	sessionRepo := redisdb.NewSessionRepository(rdb, cfg.SessionTTL)
	sessions := service.NewSessionStore(authGateway, sessionRepo, cfg.IdleTimeout, cfg.RefreshWindow, log)
	defer sessions.Close()
	carts := service.NewCartStore(clinicGateway, log)

	codec := middleware.NewTokenCodec(cfg.SessionSecret, cfg.SessionTTL)

	e, err := api.NewRouter(api.RouterDeps{
		Sessions:      sessions,
		Auth:          authGateway,
		Carts:         carts,
		Clinic:        clinicGateway,
		Redis:         rdb,
		Codec:         codec,
		SecureCookies: cfg.Env != "development",
		Logger:        log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting portal")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("portal stopped")
}
