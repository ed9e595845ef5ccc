package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vaultigo/vaultigo/internal/middleware"
	"github.com/vaultigo/vaultigo/internal/models"
)

// PhishingService defines the scan-history operations required by the
// PhishingHandler.
type PhishingService interface {
	// RecordScan appends one scan verdict to the identity's history.
	RecordScan(ctx context.Context, userID, sender, body string, isPhishing bool, threatLevel string) (*models.PhishingScan, error)
	// RecentScans returns the newest scans, capped at limit.
	RecentScans(ctx context.Context, userID string, limit int) ([]models.PhishingScan, error)
}

// PhishingHandler handles HTTP requests for the phishing scan history.
type PhishingHandler struct {
	// PhishingService performs the underlying operations.
	PhishingService PhishingService
}

// RecordRequest is the JSON payload for appending a scan record.
type RecordRequest struct {
	EmailSender string `json:"email_sender"`
	EmailBody   string `json:"email_body"`
	IsPhishing  bool   `json:"is_phishing"`
	ThreatLevel string `json:"threat_level"`
}

// Record handles POST /api/phishing.
func (h *PhishingHandler) Record(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmailSender == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	scan, err := h.PhishingService.RecordScan(ctx, userID, req.EmailSender, req.EmailBody, req.IsPhishing, req.ThreatLevel)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(scan)
}

// List handles GET /api/phishing?limit=N, most recent first.
func (h *PhishingHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	scans, err := h.PhishingService.RecentScans(ctx, userID, limit)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if scans == nil {
		scans = []models.PhishingScan{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(scans)
}
