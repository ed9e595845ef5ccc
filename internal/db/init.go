// Package db handles PostgreSQL initialization and maintenance for the
// record store.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_keys (
    user_id TEXT PRIMARY KEY,
    salt TEXT NOT NULL,
    verification TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS password_entries (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    website TEXT NOT NULL,
    encrypted TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS phishing_scans (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    email_sender TEXT NOT NULL,
    email_snippet TEXT NOT NULL,
    is_phishing BOOLEAN NOT NULL,
    threat_level TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
`

// InitPostgres opens the database, verifies connectivity, and applies
// the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
