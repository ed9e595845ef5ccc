// Package models defines the core data structures shared between the
// vault client and the record store.
package models

import "time"

// UserKey holds the per-identity key material persisted server-side.
// The server never sees the master password: only the salt and the
// verification blob the client produced from it.
type UserKey struct {
	// UserID is the anonymous identity that owns the key material.
	UserID string `json:"user_id"`
	// Salt is the hex-encoded random salt used for key derivation.
	Salt string `json:"salt"`
	// Verification is the blob used to confirm a derived key without
	// storing the password or a crackable hash of it.
	Verification string `json:"verification"`
}

// VaultEntry is one encrypted credential record. The website label is
// plaintext; everything secret lives inside the opaque ciphertext.
type VaultEntry struct {
	// ID is the unique identifier of the entry, assigned by the store.
	ID string `json:"id"`
	// Website is the plaintext label for the credential.
	Website string `json:"website"`
	// Encrypted is the opaque ciphertext blob produced by the client.
	Encrypted string `json:"encrypted"`
}

// PhishingScan is one row of the append-only phishing scan history.
type PhishingScan struct {
	// ID is the unique identifier of the scan record.
	ID string `json:"id"`
	// EmailSender is the sender address of the scanned email.
	EmailSender string `json:"email_sender"`
	// EmailSnippet is a truncated preview of the scanned email body.
	EmailSnippet string `json:"email_snippet"`
	// IsPhishing is the classification verdict.
	IsPhishing bool `json:"is_phishing"`
	// ThreatLevel is the human-readable threat rating.
	ThreatLevel string `json:"threat_level"`
	// CreatedAt is when the scan was recorded.
	CreatedAt time.Time `json:"created_at"`
}
