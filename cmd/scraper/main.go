package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/mfon/eureka/config"
	"github.com/mfon/eureka/internal/database"
	"github.com/mfon/eureka/internal/scrape"
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

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	scraper, err := scrape.New(cfg, db, logger)
	if err != nil {
		logger.Fatal("failed to create scraper", zap.Error(err))
	}

	scraper.ScrapeAll(ctx)
}
