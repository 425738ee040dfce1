package database

import (
	"context"
	"strings"
)

func (db *DB) ScrapedProjectExists(ctx context.Context, sourceURL string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM scraped_projects WHERE source_url = ?`
	err := db.conn.QueryRowContext(ctx, query, sourceURL).Scan(&count)
	return count > 0, err
}

func (db *DB) CreateScrapedProject(ctx context.Context, project *ScrapedProject) error {
	query := `
		INSERT INTO scraped_projects (source_url, title, description, raw)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`
	return db.conn.QueryRowContext(ctx, query,
		project.SourceURL,
		project.Title,
		project.Description,
		project.Raw,
	).Scan(&project.ID, &project.CreatedAt)
}

// ListUntransformed returns scraped projects not yet turned into ideas.
func (db *DB) ListUntransformed(ctx context.Context, limit int) ([]*ScrapedProject, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, source_url, title, description, raw, transformed, created_at
		FROM scraped_projects
		WHERE transformed = 0
		ORDER BY id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*ScrapedProject
	for rows.Next() {
		var p ScrapedProject
		if err := rows.Scan(
			&p.ID,
			&p.SourceURL,
			&p.Title,
			&p.Description,
			&p.Raw,
			&p.Transformed,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (db *DB) MarkTransformed(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE scraped_projects SET transformed = 1 WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := db.conn.ExecContext(ctx, query, args...)
	return err
}

func (db *DB) CreateScrapeRun(ctx context.Context, run *ScrapeRun) error {
	query := `
		INSERT INTO scrape_runs (id, gallery, pages, projects, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		run.ID,
		run.Gallery,
		run.Pages,
		run.Projects,
		run.StartedAt,
		run.FinishedAt,
	)
	return err
}
