package authutil_test

import (
	"strings"
	"testing"

	"github.com/taskdeck/taskdeck/internal/app/system/authutil"
)

func TestHashPassword_ProducesBcryptHash(t *testing.T) {
	hash, err := authutil.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	// bcrypt hashes start with $2a$ or $2b$
	if !strings.HasPrefix(hash, "$") {
		t.Error("expected bcrypt hash to start with $")
	}
}

func TestHashPassword_DifferentSaltsPerCall(t *testing.T) {
	h1, err := authutil.HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := authutil.HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	// bcrypt uses random salt, so hashes should be different
	if h1 == h2 {
		t.Error("expected different hashes for the same password")
	}
}

func TestCheckPassword_Match(t *testing.T) {
	hash, err := authutil.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !authutil.CheckPassword(hash, "s3cret-pass") {
		t.Error("expected matching password to verify")
	}
}

func TestCheckPassword_Mismatch(t *testing.T) {
	hash, err := authutil.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if authutil.CheckPassword(hash, "wrong-pass") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	if authutil.CheckPassword("not-a-hash", "anything") {
		t.Error("expected garbage hash to fail verification")
	}
}
