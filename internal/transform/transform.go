// Package transform turns raw scraped hackathon write-ups into clean,
// rephrased Idea records via an LLM with a structured JSON response.
package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mfon/eureka/config"
	"github.com/mfon/eureka/internal/database"
	"github.com/mfon/eureka/internal/feed"
)

// Store is what the transformer needs from persistence.
type Store interface {
	ListUntransformed(ctx context.Context, limit int) ([]*database.ScrapedProject, error)
	CreateIdea(ctx context.Context, idea *feed.Idea) error
	MarkTransformed(ctx context.Context, ids []int) error
}

type Transformer struct {
	apiKey    string
	model     string
	batchSize int
	db        Store
	logger    *zap.Logger
}

// TransformedIdea is the model's structured output for one project.
type TransformedIdea struct {
	ProjectName        string   `json:"project_name"`
	ShortDescription   string   `json:"short_description"`
	ProblemDescription string   `json:"problem_description"`
	Solution           string   `json:"solution"`
	TechnicalDetails   string   `json:"technical_details"`
	Technologies       []string `json:"technologies"`
	Categories         []string `json:"categories"`
	Rating             float64  `json:"rating"`
}

const PROMPT = `
You will receive a hackathon project write-up scraped from a public site.

Goal: create one fresh idea that keeps the source's core purpose but avoids
any copied wording or obvious cloning.

Instructions:
- Extract essence: restate the fundamental problem the original project
  solves, in your own words, in the problem_description field.
- Generate one variation: a single new concept that pursues the same
  high-level objective, introduces at least one meaningful change
  (different audience, added feature, new tech stack, alternate domain),
  and is written entirely in your own words.
- Fill solution with how the variation works and technical_details with a
  plausible build path.
- List 2-4 categories (AI, Fintech, Health, Web3, Developer Tools, ...)
  and the technologies the variation would use.
- Rate the variation from 1 to 10 considering novelty, feasibility,
  potential impact and technical complexity. Put the number in rating.

Do NOT mention brand names, team names, or identifiable details from the
source. The output must stand alone in a public idea feed.
`

func New(cfg *config.Config, db Store, logger *zap.Logger) (*Transformer, error) {
	if cfg.Transform.APIKey == "" {
		return nil, fmt.Errorf("transform.api_key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		apiKey:    cfg.Transform.APIKey,
		model:     cfg.Transform.Model,
		batchSize: cfg.Transform.BatchSize,
		db:        db,
		logger:    logger,
	}, nil
}

// Run transforms pending scraped projects in batches until none remain.
func (t *Transformer) Run(ctx context.Context) error {
	for {
		projects, err := t.db.ListUntransformed(ctx, t.batchSize)
		if err != nil {
			return fmt.Errorf("list untransformed projects: %w", err)
		}
		if len(projects) == 0 {
			t.logger.Info("no more projects to transform")
			return nil
		}

		t.logger.Info("transforming batch", zap.Int("count", len(projects)))

		var done []int
		for _, project := range projects {
			result, err := t.TransformProject(ctx, project)
			if err != nil {
				t.logger.Error("failed to transform project",
					zap.Int("id", project.ID),
					zap.Error(err),
				)
				continue
			}

			idea := result.ToIdea()
			if err := t.db.CreateIdea(ctx, idea); err != nil {
				t.logger.Error("failed to save idea",
					zap.Int("project_id", project.ID),
					zap.Error(err),
				)
				continue
			}
			done = append(done, project.ID)
		}

		if len(done) == 0 {
			// every project in the batch failed; bail instead of spinning
			return fmt.Errorf("transformed nothing out of %d projects", len(projects))
		}
		if err := t.db.MarkTransformed(ctx, done); err != nil {
			return fmt.Errorf("mark transformed: %w", err)
		}
	}
}

// ToIdea maps the structured output onto a feed record. Scraper-sourced
// ideas are attributed to anonymous.
func (r *TransformedIdea) ToIdea() *feed.Idea {
	idea := &feed.Idea{
		ProjectName:        r.ProjectName,
		CreatedBy:          "anonymous",
		Rating:             r.Rating,
		ShortDescription:   r.ShortDescription,
		ProblemDescription: r.ProblemDescription,
		Solution:           r.Solution,
		TechnicalDetails:   r.TechnicalDetails,
		Categories:         feed.LabelList{},
		Technologies:       feed.LabelList{},
	}
	for i, name := range r.Categories {
		idea.Categories = append(idea.Categories, feed.Label{ID: i, Name: name})
	}
	for i, name := range r.Technologies {
		idea.Technologies = append(idea.Technologies, feed.Label{ID: i, Name: name})
	}
	return idea
}

type mistralChatRequest struct {
	Model          string                 `json:"model"`
	Messages       []mistralMessage       `json:"messages"`
	ResponseFormat *mistralResponseFormat `json:"response_format,omitempty"`
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema mistralJSONSchema `json:"json_schema"`
}

type mistralJSONSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type mistralChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int            `json:"index"`
		Message mistralMessage `json:"message"`
	} `json:"choices"`
}

// TransformProject sends one scraped project through the model.
func (t *Transformer) TransformProject(ctx context.Context, project *database.ScrapedProject) (*TransformedIdea, error) {
	prompt := fmt.Sprintf("%s\n\nProject:\nTitle: %s\nDescription: %s\n\nRaw data:\n%s",
		PROMPT, project.Title, project.Description, project.Raw)

	reqBody := mistralChatRequest{
		Model: t.model,
		Messages: []mistralMessage{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &mistralResponseFormat{
			Type: "json_object",
			JSONSchema: mistralJSONSchema{
				Name: "transformed_idea",
				Schema: map[string]any{
					"type":     "object",
					"required": []string{"project_name", "short_description", "problem_description", "solution", "rating"},
					"properties": map[string]any{
						"project_name": map[string]any{
							"type": "string",
						},
						"short_description": map[string]any{
							"type": "string",
						},
						"problem_description": map[string]any{
							"type": "string",
						},
						"solution": map[string]any{
							"type": "string",
						},
						"technical_details": map[string]any{
							"type": "string",
						},
						"technologies": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"categories": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"rating": map[string]any{
							"type": "number",
						},
					},
				},
				Strict: true,
			},
		},
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx,
		"POST",
		"https://api.mistral.ai/v1/chat/completions",
		bytes.NewBuffer(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Mistral API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody bytes.Buffer
		errBody.ReadFrom(resp.Body)
		return nil, fmt.Errorf("Mistral API error (status %d): %s", resp.StatusCode, errBody.String())
	}

	var chatResp mistralChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	var idea TransformedIdea
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &idea); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea: %w", err)
	}

	return &idea, nil
}
