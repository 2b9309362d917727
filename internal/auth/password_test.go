package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q, want $argon2id$ prefix", hash)
	}
	if strings.Contains(hash, "correct horse") {
		t.Error("hash must not contain the plaintext password")
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword(hash, "correct horse battery stapl") {
		t.Error("expected one-character-off password to fail")
	}
	if VerifyPassword(hash, "") {
		t.Error("expected empty password to fail")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	h2, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ by salt")
	}
	if !VerifyPassword(h1, "hunter22") || !VerifyPassword(h2, "hunter22") {
		t.Error("both hashes should verify")
	}
}

func TestVerifyPasswordGarbledHash(t *testing.T) {
	if VerifyPassword("not-a-hash", "anything") {
		t.Error("garbled hash should never verify")
	}
	if VerifyPassword("$bcrypt$whatever", "anything") {
		t.Error("wrong algorithm tag should never verify")
	}
}
