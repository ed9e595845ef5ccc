package http

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultHIBPURL is the upstream breach directory API.
const DefaultHIBPURL = "https://haveibeenpwned.com/api/v3"

// EmailBreachHandler proxies email breach lookups to the directory
// service so its API key stays server-side. The ranged password check
// needs no proxy: it is already anonymous by protocol.
type EmailBreachHandler struct {
	// Client performs upstream requests.
	Client *http.Client
	// APIURL is the upstream API base; DefaultHIBPURL when empty.
	APIURL string
	// APIKey is the directory service credential. When unset the proxy
	// answers with an empty breach list rather than failing.
	APIKey string
}

// NewEmailBreachHandler constructs a proxy handler with a short
// upstream timeout.
func NewEmailBreachHandler(apiURL, apiKey string) *EmailBreachHandler {
	if apiURL == "" {
		apiURL = DefaultHIBPURL
	}
	return &EmailBreachHandler{
		Client: &http.Client{Timeout: 10 * time.Second},
		APIURL: apiURL,
		APIKey: apiKey,
	}
}

// Check handles GET /api/breach/email?email=...
// Upstream 404 becomes an empty 200 list: "not found" is a valid
// zero-breach answer, not an error. Other upstream failures keep their
// status so the client can tell transport errors from clean results.
func (h *EmailBreachHandler) Check(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if !strings.Contains(email, "@") {
		http.Error(w, "invalid email address", http.StatusBadRequest)
		return
	}

	if h.APIKey == "" {
		// No upstream credential configured; report no known breaches.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
		return
	}

	upstream := h.APIURL + "/breachedaccount/" + url.PathEscape(email) + "?truncateResponse=false"
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	req.Header.Set("hibp-api-key", h.APIKey)
	req.Header.Set("user-agent", "vaultigo/0.1")

	resp, err := h.Client.Do(req)
	if err != nil {
		http.Error(w, "breach directory unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
		return
	}
	if resp.StatusCode != http.StatusOK {
		http.Error(w, "breach directory error", resp.StatusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.Copy(w, resp.Body)
}
