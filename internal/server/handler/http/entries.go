package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vaultigo/vaultigo/internal/middleware"
	"github.com/vaultigo/vaultigo/internal/models"
)

// EntryService defines the vault-entry operations required by the
// EntriesHandler.
type EntryService interface {
	// CreateEntry stores a new ciphertext row and returns it with its ID.
	CreateEntry(ctx context.Context, userID, website, encrypted string) (*models.VaultEntry, error)
	// GetEntries retrieves all entries owned by an identity.
	GetEntries(ctx context.Context, userID string) ([]models.VaultEntry, error)
	// UpdateEntry replaces an entry's label and ciphertext.
	UpdateEntry(ctx context.Context, userID, id, website, encrypted string) error
	// DeleteEntry removes an entry by ID.
	DeleteEntry(ctx context.Context, userID, id string) error
}

// EntriesHandler handles HTTP requests for encrypted vault entries.
type EntriesHandler struct {
	// EntryService performs the underlying operations.
	EntryService EntryService
}

// EntryRequest is the JSON payload for creating or replacing an entry.
type EntryRequest struct {
	// Website is the plaintext label.
	Website string `json:"website"`
	// Encrypted is the client-produced ciphertext blob.
	Encrypted string `json:"encrypted"`
}

// Create handles POST /api/entries.
func (h *EntriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Website == "" || req.Encrypted == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	entry, err := h.EntryService.CreateEntry(ctx, userID, req.Website, req.Encrypted)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(entry)
}

// List handles GET /api/entries.
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	entries, err := h.EntryService.GetEntries(ctx, userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.VaultEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

// Update handles PUT /api/entries/{id}. Entries mutate only by full
// replacement.
func (h *EntriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Website == "" || req.Encrypted == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	err := h.EntryService.UpdateEntry(ctx, userID, id, req.Website, req.Encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/entries/{id}.
func (h *EntriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	err := h.EntryService.DeleteEntry(ctx, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
