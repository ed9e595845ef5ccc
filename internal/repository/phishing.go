package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vaultigo/vaultigo/internal/models"
)

// PostgresPhishingRepository implements the append-only phishing scan
// history against a PostgreSQL database.
type PostgresPhishingRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPhishingRepository creates a PostgresPhishingRepository
// with the given database connection.
func NewPostgresPhishingRepository(db *sql.DB) *PostgresPhishingRepository {
	return &PostgresPhishingRepository{DB: db}
}

// AppendScan inserts one scan record for the identity. Rows are never
// updated after insertion.
func (r *PostgresPhishingRepository) AppendScan(ctx context.Context, userID string, scan models.PhishingScan) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO phishing_scans (id, user_id, email_sender, email_snippet, is_phishing, threat_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, scan.ID, userID, scan.EmailSender, scan.EmailSnippet, scan.IsPhishing, scan.ThreatLevel, scan.CreatedAt)
	if err != nil {
		return fmt.Errorf("AppendScan: %w", err)
	}
	return nil
}

// GetRecentScans fetches the identity's most recent scans, newest
// first, capped at limit.
func (r *PostgresPhishingRepository) GetRecentScans(ctx context.Context, userID string, limit int) ([]models.PhishingScan, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email_sender, email_snippet, is_phishing, threat_level, created_at
		FROM phishing_scans WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("GetRecentScans: %w", err)
	}
	defer rows.Close()

	var scans []models.PhishingScan
	for rows.Next() {
		var s models.PhishingScan
		if err := rows.Scan(&s.ID, &s.EmailSender, &s.EmailSnippet, &s.IsPhishing, &s.ThreatLevel, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		scans = append(scans, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetRecentScans: %w", err)
	}
	return scans, nil
}

// DeleteOlderThan prunes scan history past the retention cutoff,
// returning the number of rows removed.
func (r *PostgresPhishingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM phishing_scans WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	return res.RowsAffected()
}
