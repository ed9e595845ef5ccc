package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vaultigo/vaultigo/internal/models"
)

// PostgresEntryRepository implements vault-entry persistence against a
// PostgreSQL database.
type PostgresEntryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresEntryRepository creates a PostgresEntryRepository with the
// given database connection.
func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{DB: db}
}

// CreateEntry inserts a new ciphertext row for the identity.
func (r *PostgresEntryRepository) CreateEntry(ctx context.Context, userID string, entry models.VaultEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO password_entries (id, user_id, website, encrypted)
		VALUES ($1, $2, $3, $4)
	`, entry.ID, userID, entry.Website, entry.Encrypted)
	if err != nil {
		return fmt.Errorf("CreateEntry: %w", err)
	}
	return nil
}

// GetEntriesByUser fetches all entries belonging to the identity.
func (r *PostgresEntryRepository) GetEntriesByUser(ctx context.Context, userID string) ([]models.VaultEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, website, encrypted FROM password_entries WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("GetEntriesByUser: %w", err)
	}
	defer rows.Close()

	var entries []models.VaultEntry
	for rows.Next() {
		var e models.VaultEntry
		if err := rows.Scan(&e.ID, &e.Website, &e.Encrypted); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetEntriesByUser: %w", err)
	}
	return entries, nil
}

// UpdateEntry replaces the website label and ciphertext of an entry.
// Partial field updates do not exist: entries mutate only by full
// replacement.
func (r *PostgresEntryRepository) UpdateEntry(ctx context.Context, userID, id, website, encrypted string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE password_entries SET website = $3, encrypted = $4
		WHERE user_id = $1 AND id = $2
	`, userID, id, website, encrypted)
	if err != nil {
		return fmt.Errorf("UpdateEntry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateEntry: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteEntry removes an entry owned by the identity.
func (r *PostgresEntryRepository) DeleteEntry(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM password_entries WHERE user_id = $1 AND id = $2
	`, userID, id)
	if err != nil {
		return fmt.Errorf("DeleteEntry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteEntry: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
