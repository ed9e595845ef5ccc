package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// saltSize is the number of random bytes in a freshly generated salt.
	saltSize = 16
	// kdfIterations is the PBKDF2 work factor. High on purpose: each
	// password guess costs an attacker this many HMAC invocations.
	kdfIterations = 100000
	// keySize is the derived key length in bytes (AES-256).
	keySize = 32
)

// GenerateSalt returns saltSize bytes of cryptographically secure
// randomness, hex-encoded for storage next to the verification blob.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: generate salt: %v", ErrDerivationFailed, err)
	}
	return hex.EncodeToString(salt), nil
}

// DeriveKey stretches the master password into a 32-byte symmetric key
// using PBKDF2-SHA256. The same (password, salt) pair always yields the
// same key; different salts yield unrelated keys. The salt must be the
// hex string produced by GenerateSalt.
func DeriveKey(password, salt string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrDerivationFailed)
	}
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed salt: %v", ErrDerivationFailed, err)
	}
	if len(rawSalt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrDerivationFailed)
	}
	return pbkdf2.Key([]byte(password), rawSalt, kdfIterations, keySize, sha256.New), nil
}
