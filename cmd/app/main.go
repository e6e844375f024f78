// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pitwall-gateway/internal/application"
	"pitwall-gateway/internal/config"
	"pitwall-gateway/internal/infra/adapters/backend"
	"pitwall-gateway/internal/infra/api"
	"pitwall-gateway/internal/infra/logging"
	"pitwall-gateway/internal/infra/metrics"
	"pitwall-gateway/internal/infra/slotstore"
	"pitwall-gateway/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (verbose logs, unredacted session ids)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()

	// ---- Session slot ----
	slot, closeSlot, err := slotstore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = closeSlot() }()

	// ---- Backend ----
	be, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	// ---- Use cases ----
	store := usecase.NewSessionStore(slot, be.Origin(), logger, cfg.Runtime.Dev)
	sessionUC := usecase.NewSessionUseCase(store, be, cfg.Session.SingleFlight, logger, cfg.Runtime.Dev)
	chatUC := usecase.NewChatUseCase(be, sessionUC, logger, cfg.Runtime.Dev)

	// ---- Facade ----
	facade := application.NewChatFacade(chatUC, sessionUC, logger)

	// ---- HTTP shim ----
	opts := api.Options{RequestTimeout: cfg.HTTP.RequestTimeout}
	if cfg.HTTP.JWTSecret != "" {
		opts.Auth = api.NewBearerAuth(cfg.HTTP.JWTSecret)
	}
	srv := api.NewServer(facade, logger, opts)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("backend", cfg.Backend.BaseURL).
			Str("store", cfg.Store.Driver).
			Bool("auth", opts.Auth != nil).
			Msg("http gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
}
