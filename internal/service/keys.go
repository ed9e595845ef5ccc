// Package service provides business-logic services for the record
// store, delegating persistence to repository interfaces.
package service

import (
	"context"

	"github.com/vaultigo/vaultigo/internal/models"
)

// KeyRepository defines the persistence operations required by the
// KeyService.
type KeyRepository interface {
	// SaveUserKey upserts the salt and verification blob for an identity.
	SaveUserKey(ctx context.Context, userID, salt, verification string) error
	// GetUserKey fetches key material; (nil, nil) when absent.
	GetUserKey(ctx context.Context, userID string) (*models.UserKey, error)
}

// KeyService implements key-material business logic.
type KeyService struct {
	repo KeyRepository
}

// NewKeyService constructs a KeyService using the provided repository.
func NewKeyService(repo KeyRepository) *KeyService {
	return &KeyService{repo: repo}
}

// SaveUserKey stores or replaces the identity's salt and verification
// blob.
func (s *KeyService) SaveUserKey(ctx context.Context, userID, salt, verification string) error {
	return s.repo.SaveUserKey(ctx, userID, salt, verification)
}

// GetUserKey returns the identity's key material, or nil when the
// identity has no vault configured.
func (s *KeyService) GetUserKey(ctx context.Context, userID string) (*models.UserKey, error) {
	return s.repo.GetUserKey(ctx, userID)
}
