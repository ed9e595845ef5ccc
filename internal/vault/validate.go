package vault

import (
	"github.com/nbutton23/zxcvbn-go"
)

const (
	minMasterPasswordLen = 8
	// minMasterPasswordScore is the minimum zxcvbn score (0-4) accepted
	// for a master password.
	minMasterPasswordScore = 2
)

// ValidateMasterPassword checks a new master password and its
// confirmation. It runs before any derivation so weak or mismatched
// input never reaches the crypto layer.
func ValidateMasterPassword(password, confirm string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "master password is required"}
	}
	if len(password) < minMasterPasswordLen {
		return &ValidationError{Field: "password", Message: "master password must be at least 8 characters"}
	}
	if zxcvbn.PasswordStrength(password, nil).Score < minMasterPasswordScore {
		return &ValidationError{Field: "password", Message: "master password is too weak"}
	}
	if password != confirm {
		return &ValidationError{Field: "confirm", Message: "passwords do not match"}
	}
	return nil
}

// ValidateEntryInput checks the required fields of a new or edited
// vault entry before encryption.
func ValidateEntryInput(website, username, password string) error {
	if website == "" {
		return &ValidationError{Field: "website", Message: "website is required"}
	}
	if username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}
