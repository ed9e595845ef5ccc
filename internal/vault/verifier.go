package vault

import "crypto/subtle"

// verificationMarker is the fixed, publicly known plaintext encrypted
// under the derived key at setup. Decrypting the stored blob back to
// this exact value proves the key is correct; the only way to test a
// password guess is a full decryption attempt.
const verificationMarker = "vaultigo-verify-me"

// CreateVerificationBlob encrypts the verification marker under key.
// The blob is stored server-side next to the salt at setup.
func CreateVerificationBlob(key []byte) (string, error) {
	return seal([]byte(verificationMarker), key)
}

// VerifyMasterKey reports whether key is the one the blob was created
// with. Any decryption failure, from a wrong key or a corrupted blob,
// is treated as false and never surfaced as an error.
func VerifyMasterKey(key []byte, blob string) bool {
	plaintext, err := open(blob, key)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(plaintext, []byte(verificationMarker)) == 1
}
