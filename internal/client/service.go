package client

import (
	"context"
	"errors"
	"time"

	"github.com/vaultigo/vaultigo/internal/models"
	"github.com/vaultigo/vaultigo/internal/scan"
	"github.com/vaultigo/vaultigo/internal/vault"
)

// Store is the record-store surface the vault service needs.
// RemoteStore implements it; tests substitute fakes.
type Store interface {
	SaveUserKey(ctx context.Context, salt, verification string) error
	GetUserKey(ctx context.Context) (*models.UserKey, error)
	CreateEntry(ctx context.Context, website, encrypted string) (*models.VaultEntry, error)
	GetEntries(ctx context.Context) ([]models.VaultEntry, error)
	UpdateEntry(ctx context.Context, id, website, encrypted string) error
	DeleteEntry(ctx context.Context, id string) error
}

// ErrNoVault is returned by Login when the identity has never run
// setup.
var ErrNoVault = errors.New("no vault configured for this identity")

// Service ties the crypto engine to the remote store. All encryption
// and decryption happens here, on the device; the store only ever sees
// ciphertext.
type Service struct {
	store   Store
	session *vault.SessionKey
	now     func() time.Time
}

// NewService builds a vault service over the given store.
func NewService(store Store) *Service {
	return &Service{
		store:   store,
		session: &vault.SessionKey{},
		now:     time.Now,
	}
}

// Setup creates the vault: validates the master password, generates a
// salt, derives the key, stores the verification blob, and opens the
// session. Runs once per identity; running it again rotates the salt
// and blob.
func (s *Service) Setup(ctx context.Context, password, confirm string) error {
	if err := vault.ValidateMasterPassword(password, confirm); err != nil {
		return err
	}

	salt, err := vault.GenerateSalt()
	if err != nil {
		return err
	}
	key, err := vault.DeriveKey(password, salt)
	if err != nil {
		return err
	}
	blob, err := vault.CreateVerificationBlob(key)
	if err != nil {
		return err
	}

	if err := s.store.SaveUserKey(ctx, salt, blob); err != nil {
		return err
	}
	s.session.Set(key)
	return nil
}

// Login derives a key from the candidate password and the stored salt
// and verifies it against the stored blob. On success the session
// holds the key until Logout.
func (s *Service) Login(ctx context.Context, password string) error {
	userKey, err := s.store.GetUserKey(ctx)
	if err != nil {
		return err
	}
	if userKey == nil {
		return ErrNoVault
	}

	key, err := vault.DeriveKey(password, userKey.Salt)
	if err != nil {
		return err
	}
	if !vault.VerifyMasterKey(key, userKey.Verification) {
		return vault.ErrWrongMasterPassword
	}
	s.session.Set(key)
	return nil
}

// Logout drops the session key. Idempotent.
func (s *Service) Logout() {
	s.session.Clear()
}

// LoggedIn reports whether a session key is present.
func (s *Service) LoggedIn() bool {
	_, ok := s.session.Get()
	return ok
}

// AddEntry validates, encrypts, and stores a new credential.
func (s *Service) AddEntry(ctx context.Context, website, username, password, notes string) (*models.VaultEntry, error) {
	if err := vault.ValidateEntryInput(website, username, password); err != nil {
		return nil, err
	}
	key, ok := s.session.Get()
	if !ok {
		return nil, vault.ErrAuthenticationRequired
	}

	encrypted, err := vault.EncryptEntry(vault.EntryPlaintext{
		Username:  username,
		Password:  password,
		Notes:     notes,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}, key)
	if err != nil {
		return nil, err
	}
	return s.store.CreateEntry(ctx, website, encrypted)
}

// UpdateEntry re-encrypts and fully replaces an existing credential.
func (s *Service) UpdateEntry(ctx context.Context, id, website, username, password, notes string) error {
	if err := vault.ValidateEntryInput(website, username, password); err != nil {
		return err
	}
	key, ok := s.session.Get()
	if !ok {
		return vault.ErrAuthenticationRequired
	}

	encrypted, err := vault.EncryptEntry(vault.EntryPlaintext{
		Username:  username,
		Password:  password,
		Notes:     notes,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}, key)
	if err != nil {
		return err
	}
	return s.store.UpdateEntry(ctx, id, website, encrypted)
}

// ListEntries fetches and decrypts all entries. Entries that fail to
// decrypt come back as placeholders with DecryptionFailed set; the
// listing itself never fails on a single bad entry.
func (s *Service) ListEntries(ctx context.Context) ([]vault.DecryptedEntry, error) {
	key, ok := s.session.Get()
	if !ok {
		return nil, vault.ErrAuthenticationRequired
	}
	entries, err := s.store.GetEntries(ctx)
	if err != nil {
		return nil, err
	}
	return vault.DecryptEntries(entries, key), nil
}

// DeleteEntry removes a credential by ID.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if _, ok := s.session.Get(); !ok {
		return vault.ErrAuthenticationRequired
	}
	return s.store.DeleteEntry(ctx, id)
}

// Credentials decrypts the vault into the scan coordinator's input
// shape, skipping entries that cannot be decrypted.
func (s *Service) Credentials(ctx context.Context) ([]scan.Credential, error) {
	decrypted, err := s.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	creds := make([]scan.Credential, 0, len(decrypted))
	for _, e := range decrypted {
		if e.DecryptionFailed {
			continue
		}
		creds = append(creds, scan.Credential{
			ID:       e.ID,
			Website:  e.Website,
			Username: e.Username,
			Password: e.Password,
		})
	}
	return creds, nil
}
