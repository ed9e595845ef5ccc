package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vaultigo/vaultigo/internal/models"
)

const (
	// snippetLimit bounds how much of a scanned email body is kept.
	snippetLimit = 100
	// defaultScanLimit caps history reads when the caller gives no limit.
	defaultScanLimit = 10
)

// PhishingRepository defines the persistence operations required by
// the PhishingService.
type PhishingRepository interface {
	// AppendScan inserts one scan record for an identity.
	AppendScan(ctx context.Context, userID string, scan models.PhishingScan) error
	// GetRecentScans retrieves the identity's newest scans up to limit.
	GetRecentScans(ctx context.Context, userID string, limit int) ([]models.PhishingScan, error)
}

// PhishingService implements the append-only phishing scan history.
type PhishingService struct {
	repo PhishingRepository
	now  func() time.Time
}

// NewPhishingService constructs a PhishingService with the provided
// repository.
func NewPhishingService(repo PhishingRepository) *PhishingService {
	return &PhishingService{repo: repo, now: time.Now}
}

// RecordScan stores a scan verdict, keeping only a truncated snippet of
// the email body.
func (s *PhishingService) RecordScan(ctx context.Context, userID, sender, body string, isPhishing bool, threatLevel string) (*models.PhishingScan, error) {
	// Truncate by characters, not bytes, so a multi-byte rune is never
	// split mid-sequence.
	snippet := body
	if runes := []rune(body); len(runes) > snippetLimit {
		snippet = string(runes[:snippetLimit]) + "..."
	}
	scan := models.PhishingScan{
		ID:           uuid.NewString(),
		EmailSender:  sender,
		EmailSnippet: snippet,
		IsPhishing:   isPhishing,
		ThreatLevel:  threatLevel,
		CreatedAt:    s.now(),
	}
	if err := s.repo.AppendScan(ctx, userID, scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

// RecentScans returns the identity's scan history, most recent first.
// A non-positive limit falls back to the default.
func (s *PhishingService) RecentScans(ctx context.Context, userID string, limit int) ([]models.PhishingScan, error) {
	if limit <= 0 {
		limit = defaultScanLimit
	}
	return s.repo.GetRecentScans(ctx, userID, limit)
}
