package security_test

import (
	"strings"
	"testing"

	"github.com/docket-app/docket/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("secret1")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "secret1" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if err := security.CheckPassword(hash, "secret1"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}

	if err := security.CheckPassword(hash, "secret2"); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPassword_SaltsAreUnique(t *testing.T) {
	h1, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	h2, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ")
	}
}
