package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vaultigo/vaultigo/internal/models"
)

// RemoteStore talks to the blind record store over HTTP. Every secret
// payload it sends or receives is opaque ciphertext; the store cannot
// read a vault.
type RemoteStore struct {
	client  *http.Client
	baseURL string
}

// NewRemoteStore builds a store client. client should come from
// NewIdentityClient so requests carry the identity header.
func NewRemoteStore(client *http.Client, baseURL string) *RemoteStore {
	return &RemoteStore{client: client, baseURL: baseURL}
}

// EmailBreachURL returns the store's email breach proxy endpoint for
// the breach oracle.
func (s *RemoteStore) EmailBreachURL() string {
	return s.baseURL + "/api/breach/email"
}

func (s *RemoteStore) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("%s %s: server error %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// SaveUserKey upserts the identity's salt and verification blob.
func (s *RemoteStore) SaveUserKey(ctx context.Context, salt, verification string) error {
	payload := map[string]string{"salt": salt, "verification": verification}
	_, err := s.do(ctx, http.MethodPut, "/api/keys", payload, nil)
	return err
}

// GetUserKey fetches the identity's key material. Returns (nil, nil)
// when no vault is configured yet.
func (s *RemoteStore) GetUserKey(ctx context.Context) (*models.UserKey, error) {
	var key models.UserKey
	status, err := s.do(ctx, http.MethodGet, "/api/keys", nil, &key)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// CreateEntry stores a new ciphertext row and returns it with its
// store-assigned ID.
func (s *RemoteStore) CreateEntry(ctx context.Context, website, encrypted string) (*models.VaultEntry, error) {
	payload := map[string]string{"website": website, "encrypted": encrypted}
	var entry models.VaultEntry
	if _, err := s.do(ctx, http.MethodPost, "/api/entries", payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntries fetches all of the identity's entries.
func (s *RemoteStore) GetEntries(ctx context.Context) ([]models.VaultEntry, error) {
	var entries []models.VaultEntry
	if _, err := s.do(ctx, http.MethodGet, "/api/entries", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntry replaces an entry's label and ciphertext in full.
func (s *RemoteStore) UpdateEntry(ctx context.Context, id, website, encrypted string) error {
	payload := map[string]string{"website": website, "encrypted": encrypted}
	_, err := s.do(ctx, http.MethodPut, "/api/entries/"+id, payload, nil)
	return err
}

// DeleteEntry removes an entry by ID.
func (s *RemoteStore) DeleteEntry(ctx context.Context, id string) error {
	_, err := s.do(ctx, http.MethodDelete, "/api/entries/"+id, nil, nil)
	return err
}
