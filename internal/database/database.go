package database

import (
	"database/sql"
	"fmt"

	"github.com/mfon/eureka/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

type DB struct {
	conn *sql.DB
}

// NewDB opens the configured database: a local SQLite file by default,
// or a remote libsql instance when database.type is "libsql".
func NewDB(cfg *config.Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.Database.Type {
	case "libsql":
		connStr := cfg.Database.Url
		if cfg.Database.Token != "" {
			connStr = fmt.Sprintf("%s?authToken=%s", cfg.Database.Url, cfg.Database.Token)
		}
		conn, err = sql.Open("libsql", connStr)
	default:
		conn, err = sql.Open("sqlite3", cfg.Database.DBName)
	}
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}
