package vault

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}

	k1, err := DeriveKey("Tr0ub4dor&3", salt)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	k2, err := DeriveKey("Tr0ub4dor&3", salt)
	if err != nil {
		t.Fatalf("DeriveKey second call failed: %v", err)
	}

	if !bytes.Equal(k1, k2) {
		t.Errorf("same password and salt produced different keys")
	}
	if len(k1) != 32 {
		t.Errorf("key length = %d; want 32", len(k1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	s1, _ := GenerateSalt()
	s2, _ := GenerateSalt()
	if s1 == s2 {
		t.Fatalf("two generated salts are identical")
	}

	k1, err := DeriveKey("Tr0ub4dor&3", s1)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	k2, err := DeriveKey("Tr0ub4dor&3", s2)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	if bytes.Equal(k1, k2) {
		t.Errorf("different salts produced the same key")
	}
}

func TestDeriveKey_DifferentPasswords(t *testing.T) {
	salt, _ := GenerateSalt()

	k1, _ := DeriveKey("password-one", salt)
	k2, _ := DeriveKey("password-two", salt)

	if bytes.Equal(k1, k2) {
		t.Errorf("different passwords produced the same key")
	}
}

func TestDeriveKey_EmptyPassword(t *testing.T) {
	salt, _ := GenerateSalt()
	_, err := DeriveKey("", salt)
	if !errors.Is(err, ErrDerivationFailed) {
		t.Errorf("err = %v; want ErrDerivationFailed", err)
	}
}

func TestDeriveKey_MalformedSalt(t *testing.T) {
	for _, salt := range []string{"", "not-hex!!", "zz"} {
		_, err := DeriveKey("Tr0ub4dor&3", salt)
		if !errors.Is(err, ErrDerivationFailed) {
			t.Errorf("salt %q: err = %v; want ErrDerivationFailed", salt, err)
		}
	}
}

func TestGenerateSalt_Length(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt failed: %v", err)
	}
	raw, err := hex.DecodeString(salt)
	if err != nil {
		t.Fatalf("salt is not hex: %v", err)
	}
	if len(raw) != 16 {
		t.Errorf("salt length = %d bytes; want 16", len(raw))
	}
}
