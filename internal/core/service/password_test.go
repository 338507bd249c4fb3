package service

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashAndMatch(t *testing.T) {
	hasher := NewPasswordHasher(10)

	hash, err := hasher.Hash("admin123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "admin123" {
		t.Fatalf("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	if !hasher.Matches("admin123", hash) {
		t.Fatalf("correct password rejected")
	}
	if hasher.Matches("admin124", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestPasswordHasher_MalformedHashNeverPanics(t *testing.T) {
	hasher := NewPasswordHasher(10)

	for _, stored := range []string{"", "not-a-hash", "$2a$truncated", "plaintext"} {
		if hasher.Matches("anything", stored) {
			t.Fatalf("Matches(%q) = true", stored)
		}
	}
}

func TestNewPasswordHasher_MinimumCost(t *testing.T) {
	hasher := NewPasswordHasher(4)
	if hasher.cost < 10 {
		t.Fatalf("cost below 10 accepted: %d", hasher.cost)
	}
}
