package database

import "time"

// User is a registered contributor.
type User struct {
	ID        int       `json:"id"`
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// ScrapedProject is a raw hackathon write-up captured by the scraper,
// waiting to be transformed into an Idea.
type ScrapedProject struct {
	ID          int       `json:"id"`
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Raw         string    `json:"raw"` // scraped payload as JSON
	Transformed bool      `json:"transformed"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScrapeRun records one pass over a project gallery.
type ScrapeRun struct {
	ID         string     `json:"id"`
	Gallery    string     `json:"gallery"`
	Pages      int        `json:"pages"`
	Projects   int        `json:"projects"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}
