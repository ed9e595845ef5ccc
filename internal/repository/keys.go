// Package repository provides persistence implementations for the
// record store using a PostgreSQL database. The store is blind: every
// secret it holds is opaque ciphertext produced client-side.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vaultigo/vaultigo/internal/models"
)

// PostgresKeyRepository implements user key-material persistence
// against a PostgreSQL database.
type PostgresKeyRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresKeyRepository creates a PostgresKeyRepository with the
// given database connection.
func NewPostgresKeyRepository(db *sql.DB) *PostgresKeyRepository {
	return &PostgresKeyRepository{DB: db}
}

// SaveUserKey upserts the salt and verification blob for an identity.
// One row per identity: creating when absent, updating in place
// otherwise.
func (r *PostgresKeyRepository) SaveUserKey(ctx context.Context, userID, salt, verification string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_keys (user_id, salt, verification)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			salt = EXCLUDED.salt,
			verification = EXCLUDED.verification
	`, userID, salt, verification)
	if err != nil {
		return fmt.Errorf("SaveUserKey: %w", err)
	}
	return nil
}

// GetUserKey fetches the key material for an identity. Returns
// (nil, nil) when the identity has no vault configured yet.
func (r *PostgresKeyRepository) GetUserKey(ctx context.Context, userID string) (*models.UserKey, error) {
	var key models.UserKey
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, salt, verification FROM user_keys WHERE user_id = $1
	`, userID).Scan(&key.UserID, &key.Salt, &key.Verification)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserKey: %w", err)
	}
	return &key, nil
}
