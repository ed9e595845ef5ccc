package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vaultigo/vaultigo/internal/middleware"
	"github.com/vaultigo/vaultigo/internal/models"
)

const deviceID = "3f2c8a4e-9b1d-4c6a-8e2f-7d5b4a3c2e1f"

func TestIdentityClient_StampsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(middleware.UserHeader); got != deviceID {
			t.Errorf("identity header = %q; want %q", got, deviceID)
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	store := NewRemoteStore(NewIdentityClient(deviceID), srv.URL)
	if _, err := store.GetEntries(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoteStore_SaveAndGetUserKey(t *testing.T) {
	var saved map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			if r.URL.Path != "/api/keys" {
				t.Errorf("path = %q", r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&saved)
			w.Write([]byte(`{"status":"ok"}`))
		case http.MethodGet:
			json.NewEncoder(w).Encode(models.UserKey{UserID: deviceID, Salt: saved["salt"], Verification: saved["verification"]})
		}
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.Client(), srv.URL)

	if err := store.SaveUserKey(context.Background(), "a1b2", "blob"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved["salt"] != "a1b2" || saved["verification"] != "blob" {
		t.Errorf("server received %+v", saved)
	}

	key, err := store.GetUserKey(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if key == nil || key.Salt != "a1b2" || key.Verification != "blob" {
		t.Errorf("key = %+v", key)
	}
}

func TestRemoteStore_GetUserKeyNotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.Client(), srv.URL)

	key, err := store.GetUserKey(context.Background())
	if err != nil {
		t.Fatalf("a 404 means no vault yet, not an error: %v", err)
	}
	if key != nil {
		t.Errorf("key = %+v; want nil", key)
	}
}

func TestRemoteStore_EntryLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/entries":
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.VaultEntry{ID: "e1", Website: req["website"], Encrypted: req["encrypted"]})
		case r.Method == http.MethodPut && r.URL.Path == "/api/entries/e1":
			w.Write([]byte(`{"status":"ok"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/entries/e1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.Error(w, "bad route", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.Client(), srv.URL)

	entry, err := store.CreateEntry(context.Background(), "example.com", "blob")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.ID != "e1" || entry.Website != "example.com" {
		t.Errorf("entry = %+v", entry)
	}
	if err := store.UpdateEntry(context.Background(), "e1", "new.com", "newblob"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.DeleteEntry(context.Background(), "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestRemoteStore_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.Client(), srv.URL)
	if _, err := store.GetEntries(context.Background()); err == nil {
		t.Fatal("expected error on server failure")
	}
}

func TestRemoteStore_EmailBreachURL(t *testing.T) {
	store := NewRemoteStore(http.DefaultClient, "https://store.example")
	if got := store.EmailBreachURL(); got != "https://store.example/api/breach/email" {
		t.Errorf("EmailBreachURL = %q", got)
	}
}
