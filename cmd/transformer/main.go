package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/mfon/eureka/config"
	"github.com/mfon/eureka/internal/database"
	"github.com/mfon/eureka/internal/transform"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	transformer, err := transform.New(cfg, db, logger)
	if err != nil {
		logger.Fatal("failed to create transformer", zap.Error(err))
	}

	if err := transformer.Run(ctx); err != nil {
		logger.Fatal("transform run failed", zap.Error(err))
	}

	logger.Info("DONE")
}
