// Package vault implements the client-side cryptographic engine:
// master-password key derivation, authenticated encryption of vault
// entries, key verification, and the in-memory session key.
package vault

import "errors"

var (
	// ErrAuthenticationRequired is returned when an operation needs the
	// session key and none is present. Recoverable by logging in again.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrDecryptionFailed is returned when a ciphertext cannot be
	// decrypted: wrong key, truncated blob, or tampered data. The caller
	// never receives a partial or plausible-looking wrong record.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrDerivationFailed is returned when key derivation cannot run.
	// Fatal to the current operation; not retried automatically.
	ErrDerivationFailed = errors.New("key derivation failed")

	// ErrWrongMasterPassword is returned by login flows when the derived
	// key fails verification against the stored blob.
	ErrWrongMasterPassword = errors.New("incorrect master password")
)

// ValidationError reports a problem with user input for a single field.
// Validation always runs before any cryptographic operation.
type ValidationError struct {
	// Field names the offending input field.
	Field string
	// Message is the user-facing explanation.
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
