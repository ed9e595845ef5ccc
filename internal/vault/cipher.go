package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/vaultigo/vaultigo/internal/models"
)

// EntryPlaintext is the secret portion of a vault entry. It exists only
// transiently in memory around encrypt and decrypt calls.
type EntryPlaintext struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

// DecryptedEntry pairs an entry's public metadata with its decrypted
// payload. In batch listings a failed entry is kept with
// DecryptionFailed set instead of aborting the whole operation.
type DecryptedEntry struct {
	ID      string
	Website string
	EntryPlaintext
	DecryptionFailed bool
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return aead, nil
}

// EncryptEntry serializes the record to JSON and seals it with
// AES-256-GCM under key. A fresh random nonce is generated per call and
// prepended to the ciphertext; the whole blob is base64-encoded so the
// store can treat it as an opaque string.
func EncryptEntry(entry EntryPlaintext, key []byte) (string, error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("serialize entry: %w", err)
	}
	return seal(plaintext, key)
}

// DecryptEntry reverses EncryptEntry. Any malformed, truncated or
// tampered blob, and any wrong key, yields ErrDecryptionFailed.
func DecryptEntry(encoded string, key []byte) (EntryPlaintext, error) {
	var entry EntryPlaintext
	plaintext, err := open(encoded, key)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(plaintext, &entry); err != nil {
		return EntryPlaintext{}, fmt.Errorf("%w: malformed payload", ErrDecryptionFailed)
	}
	return entry, nil
}

// DecryptEntries decrypts a collection of entries under key. One
// entry's failure does not abort the batch: the failed entry becomes a
// placeholder with DecryptionFailed set and processing continues.
func DecryptEntries(entries []models.VaultEntry, key []byte) []DecryptedEntry {
	decrypted := make([]DecryptedEntry, 0, len(entries))
	for _, e := range entries {
		out := DecryptedEntry{ID: e.ID, Website: e.Website}
		plain, err := DecryptEntry(e.Encrypted, key)
		if err != nil {
			out.DecryptionFailed = true
		} else {
			out.EntryPlaintext = plain
		}
		decrypted = append(decrypted, out)
	}
	return decrypted
}

func seal(plaintext, key []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	// Result layout: nonce || ciphertext.
	ciphertext := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func open(encoded string, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", ErrDecryptionFailed)
	}
	if len(blob) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: blob too short", ErrDecryptionFailed)
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
