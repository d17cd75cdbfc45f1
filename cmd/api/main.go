package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mulearn-geci/community-api/internal/assets"
	"github.com/mulearn-geci/community-api/internal/cache"
	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/notify"
	"github.com/mulearn-geci/community-api/internal/server"
	"github.com/mulearn-geci/community-api/internal/services"
	"github.com/mulearn-geci/community-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()
	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Get()

	repos, err := postgres.NewContainer(cfg)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Warn("Failed to close storage", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := services.EnsureAdmin(ctx, repos.Users(), cfg); err != nil {
		cancel()
		log.Error("Failed to bootstrap admin account", "error", err)
		os.Exit(1)
	}
	cancel()

	store, err := assets.New(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to initialize asset store", "error", err)
		os.Exit(1)
	}

	statsCache := cache.New(cfg)
	defer func() {
		if err := statsCache.Close(); err != nil {
			log.Warn("Failed to close cache", "error", err)
		}
	}()

	mailer := notify.NewMailer(cfg)

	srv := server.New(cfg, repos, store, statsCache, mailer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
		log.Info("Server stopped")
	}
}
