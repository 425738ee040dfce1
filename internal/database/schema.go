package database

import (
	"context"
	"fmt"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS ideas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_name TEXT NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	likes INTEGER NOT NULL DEFAULT 0,
	rating REAL NOT NULL DEFAULT 0,
	short_description TEXT NOT NULL DEFAULT '',
	problem_description TEXT NOT NULL DEFAULT '',
	solution TEXT NOT NULL DEFAULT '',
	technical_details TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE COLLATE NOCASE
);

CREATE TABLE IF NOT EXISTS technologies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE COLLATE NOCASE
);

CREATE TABLE IF NOT EXISTS idea_categories (
	idea_id INTEGER NOT NULL REFERENCES ideas(id),
	category_id INTEGER NOT NULL REFERENCES categories(id),
	PRIMARY KEY (idea_id, category_id)
);

CREATE TABLE IF NOT EXISTS idea_technologies (
	idea_id INTEGER NOT NULL REFERENCES ideas(id),
	technology_id INTEGER NOT NULL REFERENCES technologies(id),
	PRIMARY KEY (idea_id, technology_id)
);

CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	idea_id INTEGER NOT NULL REFERENCES ideas(id),
	user_id INTEGER NOT NULL DEFAULT 0,
	content TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL UNIQUE COLLATE NOCASE,
	provider TEXT NOT NULL DEFAULT 'password',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS scraped_projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_url TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	raw TEXT NOT NULL DEFAULT '',
	transformed INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS scrape_runs (
	id TEXT PRIMARY KEY,
	gallery TEXT NOT NULL,
	pages INTEGER NOT NULL DEFAULT 0,
	projects INTEGER NOT NULL DEFAULT 0,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scraped_projects_transformed ON scraped_projects(transformed);
CREATE INDEX IF NOT EXISTS idx_comments_idea ON comments(idea_id);
`

// Migrate applies the schema, statement by statement, in one
// transaction.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate statement failed:\n%s\n%w", stmt, err)
		}
	}

	return tx.Commit()
}
