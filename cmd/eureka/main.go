package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mfon/eureka/config"
	"github.com/mfon/eureka/internal/auth"
	"github.com/mfon/eureka/internal/database"
	"github.com/mfon/eureka/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	verifier, err := auth.NewHTTPVerifier(cfg.Auth.VerifyURL)
	if err != nil {
		logger.Fatal("failed to create verifier", zap.Error(err))
	}

	srv, err := server.NewServer(db, verifier, logger, &server.Config{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		SessionTTL:    time.Duration(cfg.Auth.SessionTTLSecs) * time.Second,
		SecureCookies: cfg.Auth.SecureCookies,
	})
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Info("server stopped", zap.Error(err))
	}
}
