// Package http provides the record store's HTTP handlers. Every
// payload the store accepts is either plaintext metadata or opaque
// ciphertext; nothing here can read a vault.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vaultigo/vaultigo/internal/middleware"
	"github.com/vaultigo/vaultigo/internal/models"
)

// KeyService defines the key-material operations required by the
// KeysHandler.
type KeyService interface {
	// SaveUserKey upserts the salt and verification blob for an identity.
	SaveUserKey(ctx context.Context, userID, salt, verification string) error
	// GetUserKey fetches key material; (nil, nil) when absent.
	GetUserKey(ctx context.Context, userID string) (*models.UserKey, error)
}

// KeysHandler handles HTTP requests for per-identity key material.
type KeysHandler struct {
	// KeyService performs the underlying operations.
	KeyService KeyService
}

// SaveRequest is the JSON payload for storing key material.
type SaveRequest struct {
	// Salt is the hex-encoded derivation salt.
	Salt string `json:"salt"`
	// Verification is the verification blob ciphertext.
	Verification string `json:"verification"`
}

// Save handles PUT /api/keys. It upserts the identity's salt and
// verification blob.
func (h *KeysHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Salt == "" || req.Verification == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.KeyService.SaveUserKey(ctx, userID, req.Salt, req.Verification); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Get handles GET /api/keys. It returns the identity's key material or
// 404 when no vault is configured.
func (h *KeysHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	key, err := h.KeyService.GetUserKey(ctx, userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if key == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(key)
}
