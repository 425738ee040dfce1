package database

import "context"

func (db *DB) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE username = ?`
	err := db.conn.QueryRowContext(ctx, query, username).Scan(&count)
	return count > 0, err
}

func (db *DB) RegisterUser(ctx context.Context, uid, email, username, provider string) error {
	query := `INSERT INTO users (uid, email, username, provider) VALUES (?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query, uid, email, username, provider)
	return err
}
