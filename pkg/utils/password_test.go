package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil || !ok {
		t.Fatalf("correct password must verify, ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("abc123")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("abc123")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}
}

func TestVerifyPasswordBadFormat(t *testing.T) {
	for _, bad := range []string{"", "plaintext", "$bcrypt$whatever", "$argon2id$v=19$m=65536,t=3,p=2$only-one-part"} {
		if _, err := VerifyPassword("x", bad); err == nil {
			t.Errorf("malformed hash %q must error", bad)
		}
	}
}
