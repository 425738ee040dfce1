// feedtool is a developer smoke tool: it signs in against a running
// Eureka server, pulls a couple of feed pages through the pagination
// controller and dumps the derived insights.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/k0kubun/pp/v3"
	"go.uber.org/zap"

	"github.com/mfon/eureka/config"
	"github.com/mfon/eureka/internal/client"
	"github.com/mfon/eureka/internal/feed"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	idToken := flag.String("token", "", "identity token to establish a session with")
	query := flag.String("q", "", "search query to filter by")
	category := flag.String("category", "", "category filter")
	flag.Parse()

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

	api, err := client.New(*baseURL)
	if err != nil {
		log.Fatalf("create client: %v", err)
	}

	if *idToken != "" {
		if err := api.EstablishSession(ctx, *idToken); err != nil {
			log.Fatalf("establish session: %v", err)
		}
	}

	store := feed.NewStore()
	controller := feed.NewController(api, store, logger, cfg.Feed.PageSize)

	if err := controller.LoadFirstPage(ctx); err != nil {
		log.Fatalf("load first page: %v", err)
	}
	if store.HasMore() {
		if err := controller.LoadMore(ctx); err != nil {
			log.Fatalf("load more: %v", err)
		}
	}

	log.Printf("Loaded %d ideas (has more: %v)", store.Len(), store.HasMore())

	visible := feed.Apply(store.Ideas(), feed.Filter{
		Query:    *query,
		Category: *category,
		Sort:     feed.SortMostLiked,
	})
	log.Printf("Showing %d of %d ideas", len(visible), store.Len())

	pp.Print(feed.Summarize(store.Ideas()))
}
