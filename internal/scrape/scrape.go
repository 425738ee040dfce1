// Package scrape walks hackathon project galleries and captures raw
// write-ups for later transformation.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfon/eureka/config"
	"github.com/mfon/eureka/internal/database"
)

// Store is what the scraper needs from persistence.
type Store interface {
	ScrapedProjectExists(ctx context.Context, sourceURL string) (bool, error)
	CreateScrapedProject(ctx context.Context, project *database.ScrapedProject) error
	CreateScrapeRun(ctx context.Context, run *database.ScrapeRun) error
}

type Scraper struct {
	client tls_client.HttpClient
	db     Store
	config *config.Config
	logger *zap.Logger
}

func New(cfg *config.Config, db Store, logger *zap.Logger) (*Scraper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Gallery hosts fingerprint plain Go clients, so present a browser
	// TLS profile.
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(30),
		tls_client.WithClientProfile(profiles.Chrome_133),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
	}
	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	return &Scraper{
		client: client,
		db:     db,
		config: cfg,
		logger: logger,
	}, nil
}

// ScrapeAll walks every configured gallery.
func (s *Scraper) ScrapeAll(ctx context.Context) {
	for _, gallery := range s.config.Scraper.Galleries {
		if err := s.ScrapeGallery(ctx, gallery); err != nil {
			s.logger.Error("gallery scrape failed",
				zap.String("gallery", gallery),
				zap.Error(err),
			)
		}
	}
}

// ScrapeGallery pages through one gallery until an empty page, capturing
// every project not already stored, and records the run.
func (s *Scraper) ScrapeGallery(ctx context.Context, galleryURL string) error {
	s.logger.Info("scraping gallery", zap.String("gallery", galleryURL))

	run := &database.ScrapeRun{
		ID:        uuid.NewString(),
		Gallery:   galleryURL,
		StartedAt: time.Now(),
	}
	rateLimit := time.Duration(s.config.Scraper.RateLimitSecs) * time.Second

	for page := 1; page <= s.config.Scraper.PageLimit; page++ {
		urls, err := s.fetchProjectLinks(ctx, galleryURL, page)
		if err != nil {
			s.logger.Error("failed to fetch gallery page",
				zap.String("gallery", galleryURL),
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}
		if len(urls) == 0 {
			break
		}
		run.Pages++
		s.logger.Info("found projects", zap.Int("page", page), zap.Int("count", len(urls)))

		for _, url := range urls {
			existed, err := s.db.ScrapedProjectExists(ctx, url)
			if err != nil {
				s.logger.Error("failed to check project existence", zap.Error(err))
				continue
			}
			if existed {
				continue
			}

			project, err := s.fetchProject(ctx, url)
			if err != nil {
				s.logger.Error("failed to fetch project", zap.String("url", url), zap.Error(err))
				continue
			}

			if err := s.db.CreateScrapedProject(ctx, project); err != nil {
				s.logger.Error("failed to save project", zap.String("url", url), zap.Error(err))
				continue
			}
			run.Projects++

			if run.Projects >= s.config.Scraper.BatchLimit {
				s.logger.Info("batch limit reached", zap.Int("projects", run.Projects))
				return s.finishRun(ctx, run)
			}
		}

		if rateLimit > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(rateLimit):
			}
		}
	}

	return s.finishRun(ctx, run)
}

func (s *Scraper) finishRun(ctx context.Context, run *database.ScrapeRun) error {
	now := time.Now()
	run.FinishedAt = &now
	if err := s.db.CreateScrapeRun(ctx, run); err != nil {
		return fmt.Errorf("record scrape run: %w", err)
	}
	s.logger.Info("gallery scrape finished",
		zap.String("run_id", run.ID),
		zap.Int("pages", run.Pages),
		zap.Int("projects", run.Projects),
	)
	return nil
}

// fetchProjectLinks loads one gallery page and extracts project URLs.
func (s *Scraper) fetchProjectLinks(ctx context.Context, galleryURL string, page int) ([]string, error) {
	body, err := s.get(ctx, fmt.Sprintf("%s?page=%d", galleryURL, page))
	if err != nil {
		return nil, err
	}
	return ExtractProjectLinks(body), nil
}

// fetchProject loads a project page and captures its metadata.
func (s *Scraper) fetchProject(ctx context.Context, url string) (*database.ScrapedProject, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	info := ExtractProjectInfo(body)
	raw, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}

	return &database.ScrapedProject{
		SourceURL:   url,
		Title:       info.Title,
		Description: info.Description,
		Raw:         string(raw),
	}, nil
}

func (s *Scraper) get(ctx context.Context, url string) (string, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gallery error %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
