package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/mfon/eureka/config"
	"github.com/mfon/eureka/internal/database"
	"github.com/mfon/eureka/internal/feed"
)

func main() {
	seedPath := flag.String("seed", "", "path to an ideas JSON file to import after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if *seedPath != "" {
		if err := seed(ctx, db, *seedPath); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	log.Println("DONE")
}

// seedIdea is the scraper export shape: snake_case fields, everything
// optional except the project name.
type seedIdea struct {
	ProjectName        string   `json:"project_name"`
	Likes              int      `json:"likes"`
	Rating             float64  `json:"rating"`
	ShortDescription   string   `json:"short_description"`
	ProblemDescription string   `json:"problem_description"`
	Solution           string   `json:"solution"`
	TechnicalDetails   string   `json:"technical_details"`
	Categories         []string `json:"categories"`
	Technologies       []string `json:"technologies"`
}

func seed(ctx context.Context, db *database.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var payload struct {
		Ideas []seedIdea `json:"ideas"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}

	log.Printf("Starting import of %d ideas", len(payload.Ideas))

	success := 0
	for _, item := range payload.Ideas {
		if item.ProjectName == "" {
			log.Printf("Skipping idea with no project name")
			continue
		}

		idea := &feed.Idea{
			ProjectName:        item.ProjectName,
			CreatedBy:          "anonymous",
			Likes:              item.Likes,
			Rating:             item.Rating,
			ShortDescription:   item.ShortDescription,
			ProblemDescription: item.ProblemDescription,
			Solution:           item.Solution,
			TechnicalDetails:   item.TechnicalDetails,
		}
		for i, name := range item.Categories {
			idea.Categories = append(idea.Categories, feed.Label{ID: i, Name: name})
		}
		for i, name := range item.Technologies {
			idea.Technologies = append(idea.Technologies, feed.Label{ID: i, Name: name})
		}

		if err := db.CreateIdea(ctx, idea); err != nil {
			log.Printf("Failed to import %q: %v", item.ProjectName, err)
			continue
		}
		success++
	}

	log.Printf("Import completed: %d/%d successful", success, len(payload.Ideas))
	return nil
}
