package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/vaultigo/vaultigo/internal/models"
)

// EntryRepository defines the persistence operations required by the
// EntryService.
type EntryRepository interface {
	// CreateEntry inserts a new ciphertext row for an identity.
	CreateEntry(ctx context.Context, userID string, entry models.VaultEntry) error
	// GetEntriesByUser retrieves all entries belonging to an identity.
	GetEntriesByUser(ctx context.Context, userID string) ([]models.VaultEntry, error)
	// UpdateEntry replaces an entry's website label and ciphertext.
	UpdateEntry(ctx context.Context, userID, id, website, encrypted string) error
	// DeleteEntry removes an entry owned by an identity.
	DeleteEntry(ctx context.Context, userID, id string) error
}

// EntryService implements vault-entry business logic. Entries are
// opaque to it: encryption and decryption happen on the client.
type EntryService struct {
	repo EntryRepository
}

// NewEntryService constructs an EntryService with the provided
// repository.
func NewEntryService(repo EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// CreateEntry assigns a fresh ID to the entry, persists it, and
// returns the stored record.
func (s *EntryService) CreateEntry(ctx context.Context, userID, website, encrypted string) (*models.VaultEntry, error) {
	entry := models.VaultEntry{
		ID:        uuid.NewString(),
		Website:   website,
		Encrypted: encrypted,
	}
	if err := s.repo.CreateEntry(ctx, userID, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntries returns all entries owned by the identity.
func (s *EntryService) GetEntries(ctx context.Context, userID string) ([]models.VaultEntry, error) {
	return s.repo.GetEntriesByUser(ctx, userID)
}

// UpdateEntry replaces an entry's label and ciphertext in full.
func (s *EntryService) UpdateEntry(ctx context.Context, userID, id, website, encrypted string) error {
	return s.repo.UpdateEntry(ctx, userID, id, website, encrypted)
}

// DeleteEntry removes an entry by ID.
func (s *EntryService) DeleteEntry(ctx context.Context, userID, id string) error {
	return s.repo.DeleteEntry(ctx, userID, id)
}
