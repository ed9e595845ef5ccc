package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vaultigo/vaultigo/internal/models"
	"github.com/vaultigo/vaultigo/internal/service"
)

type mockEntryRepo struct {
	CreateEntryFunc      func(ctx context.Context, userID string, entry models.VaultEntry) error
	GetEntriesByUserFunc func(ctx context.Context, userID string) ([]models.VaultEntry, error)
	UpdateEntryFunc      func(ctx context.Context, userID, id, website, encrypted string) error
	DeleteEntryFunc      func(ctx context.Context, userID, id string) error
}

func (m *mockEntryRepo) CreateEntry(ctx context.Context, userID string, entry models.VaultEntry) error {
	return m.CreateEntryFunc(ctx, userID, entry)
}
func (m *mockEntryRepo) GetEntriesByUser(ctx context.Context, userID string) ([]models.VaultEntry, error) {
	return m.GetEntriesByUserFunc(ctx, userID)
}
func (m *mockEntryRepo) UpdateEntry(ctx context.Context, userID, id, website, encrypted string) error {
	return m.UpdateEntryFunc(ctx, userID, id, website, encrypted)
}
func (m *mockEntryRepo) DeleteEntry(ctx context.Context, userID, id string) error {
	return m.DeleteEntryFunc(ctx, userID, id)
}

func TestCreateEntry_AssignsID(t *testing.T) {
	var stored models.VaultEntry
	repo := &mockEntryRepo{
		CreateEntryFunc: func(ctx context.Context, userID string, entry models.VaultEntry) error {
			if userID != "u1" {
				t.Errorf("CreateEntry userID = %q; want u1", userID)
			}
			stored = entry
			return nil
		},
	}
	svc := service.NewEntryService(repo)

	entry, err := svc.CreateEntry(context.Background(), "u1", "example.com", "blob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uuid.Validate(entry.ID); err != nil {
		t.Errorf("entry ID %q is not a UUID: %v", entry.ID, err)
	}
	if entry.Website != "example.com" || entry.Encrypted != "blob" {
		t.Errorf("entry = %+v; fields not preserved", entry)
	}
	if stored.ID != entry.ID {
		t.Errorf("stored ID %q differs from returned ID %q", stored.ID, entry.ID)
	}
}

func TestCreateEntry_FreshIDPerEntry(t *testing.T) {
	repo := &mockEntryRepo{
		CreateEntryFunc: func(context.Context, string, models.VaultEntry) error { return nil },
	}
	svc := service.NewEntryService(repo)

	a, _ := svc.CreateEntry(context.Background(), "u1", "a.com", "b1")
	b, _ := svc.CreateEntry(context.Background(), "u1", "b.com", "b2")
	if a.ID == b.ID {
		t.Errorf("two entries got the same ID %q", a.ID)
	}
}

func TestCreateEntry_RepoError(t *testing.T) {
	wantErr := errors.New("insert failed")
	repo := &mockEntryRepo{
		CreateEntryFunc: func(context.Context, string, models.VaultEntry) error { return wantErr },
	}
	svc := service.NewEntryService(repo)

	entry, err := svc.CreateEntry(context.Background(), "u1", "a.com", "b")
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v; want %v", err, wantErr)
	}
	if entry != nil {
		t.Errorf("failed create should return no entry, got %+v", entry)
	}
}

func TestGetEntries_PassesThrough(t *testing.T) {
	want := []models.VaultEntry{{ID: "e1"}, {ID: "e2"}}
	repo := &mockEntryRepo{
		GetEntriesByUserFunc: func(ctx context.Context, userID string) ([]models.VaultEntry, error) {
			if userID != "u1" {
				t.Errorf("GetEntriesByUser userID = %q; want u1", userID)
			}
			return want, nil
		},
	}
	svc := service.NewEntryService(repo)

	got, err := svc.GetEntries(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e1" {
		t.Errorf("entries = %+v; want %+v", got, want)
	}
}

func TestUpdateEntry_PassesThrough(t *testing.T) {
	called := false
	repo := &mockEntryRepo{
		UpdateEntryFunc: func(ctx context.Context, userID, id, website, encrypted string) error {
			called = true
			if userID != "u1" || id != "e1" || website != "new.com" || encrypted != "newblob" {
				t.Errorf("UpdateEntry args = %q, %q, %q, %q", userID, id, website, encrypted)
			}
			return nil
		},
	}
	svc := service.NewEntryService(repo)
	if err := svc.UpdateEntry(context.Background(), "u1", "e1", "new.com", "newblob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected UpdateEntry to be called")
	}
}

func TestDeleteEntry_PassesThrough(t *testing.T) {
	wantErr := errors.New("not found")
	repo := &mockEntryRepo{
		DeleteEntryFunc: func(ctx context.Context, userID, id string) error { return wantErr },
	}
	svc := service.NewEntryService(repo)
	if err := svc.DeleteEntry(context.Background(), "u1", "missing"); !errors.Is(err, wantErr) {
		t.Fatalf("error = %v; want %v", err, wantErr)
	}
}
