package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mfon/eureka/internal/feed"
)

// ListIdeas returns a page of ideas ordered by id, with their category
// and technology labels and comments attached.
func (db *DB) ListIdeas(ctx context.Context, offset, limit int) ([]feed.Idea, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, project_name, created_by, likes, rating,
		       short_description, problem_description, solution, technical_details
		FROM ideas
		ORDER BY id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas []feed.Idea
	byID := make(map[int]int)
	var ids []int
	for rows.Next() {
		var idea feed.Idea
		if err := rows.Scan(
			&idea.ID,
			&idea.ProjectName,
			&idea.CreatedBy,
			&idea.Likes,
			&idea.Rating,
			&idea.ShortDescription,
			&idea.ProblemDescription,
			&idea.Solution,
			&idea.TechnicalDetails,
		); err != nil {
			return nil, err
		}
		idea.Categories = feed.LabelList{}
		idea.Technologies = feed.LabelList{}
		byID[idea.ID] = len(ideas)
		ids = append(ids, idea.ID)
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return []feed.Idea{}, nil
	}

	if err := db.attachLabels(ctx, ideas, byID, ids, "idea_categories", "category_id", "categories", true); err != nil {
		return nil, err
	}
	if err := db.attachLabels(ctx, ideas, byID, ids, "idea_technologies", "technology_id", "technologies", false); err != nil {
		return nil, err
	}
	if err := db.attachComments(ctx, ideas, byID, ids); err != nil {
		return nil, err
	}

	return ideas, nil
}

func (db *DB) attachLabels(ctx context.Context, ideas []feed.Idea, byID map[int]int, ids []int, linkTable, linkColumn, labelTable string, categories bool) error {
	query := `
		SELECT l.idea_id, t.id, t.name
		FROM ` + linkTable + ` l
		JOIN ` + labelTable + ` t ON t.id = l.` + linkColumn + `
		WHERE l.idea_id IN (?` + strings.Repeat(",?", len(ids)-1) + `)
		ORDER BY t.id`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ideaID int
		var label feed.Label
		if err := rows.Scan(&ideaID, &label.ID, &label.Name); err != nil {
			return err
		}
		idx, ok := byID[ideaID]
		if !ok {
			continue
		}
		if categories {
			ideas[idx].Categories = append(ideas[idx].Categories, label)
		} else {
			ideas[idx].Technologies = append(ideas[idx].Technologies, label)
		}
	}
	return rows.Err()
}

func (db *DB) attachComments(ctx context.Context, ideas []feed.Idea, byID map[int]int, ids []int) error {
	query := `
		SELECT id, idea_id, user_id, content
		FROM comments
		WHERE idea_id IN (?` + strings.Repeat(",?", len(ids)-1) + `)
		ORDER BY id`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var comment feed.Comment
		if err := rows.Scan(&comment.ID, &comment.IdeaID, &comment.UserID, &comment.Content); err != nil {
			return err
		}
		idx, ok := byID[comment.IdeaID]
		if !ok {
			continue
		}
		ideas[idx].Comments = append(ideas[idx].Comments, comment)
	}
	return rows.Err()
}

// CreateIdea inserts the idea with its labels, writing the new id back
// into the struct.
func (db *DB) CreateIdea(ctx context.Context, idea *feed.Idea) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO ideas (project_name, created_by, likes, rating,
		                   short_description, problem_description, solution, technical_details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, query,
		idea.ProjectName,
		idea.CreatedBy,
		idea.Likes,
		idea.Rating,
		idea.ShortDescription,
		idea.ProblemDescription,
		idea.Solution,
		idea.TechnicalDetails,
	).Scan(&idea.ID); err != nil {
		return err
	}

	for _, label := range idea.Categories {
		labelID, err := ensureLabel(ctx, tx, "categories", label.Name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO idea_categories (idea_id, category_id) VALUES (?, ?)`,
			idea.ID, labelID); err != nil {
			return err
		}
	}
	for _, label := range idea.Technologies {
		labelID, err := ensureLabel(ctx, tx, "technologies", label.Name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO idea_technologies (idea_id, technology_id) VALUES (?, ?)`,
			idea.ID, labelID); err != nil {
			return err
		}
	}

	for _, comment := range idea.Comments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comments (idea_id, user_id, content) VALUES (?, ?, ?)`,
			idea.ID, comment.UserID, comment.Content); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ensureLabel finds or creates a label row by name. Name comparison is
// case-insensitive (COLLATE NOCASE on the column).
func ensureLabel(ctx context.Context, tx *sql.Tx, table, name string) (int, error) {
	name = strings.TrimSpace(name)

	var id int
	err := tx.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = tx.QueryRowContext(ctx, `INSERT INTO `+table+` (name) VALUES (?) RETURNING id`, name).Scan(&id)
	return id, err
}
