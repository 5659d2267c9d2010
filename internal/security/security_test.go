package security

import (
	"strings"
	"testing"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected non-matching password to fail")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := SignSessionToken("test-secret", "joao", "joao@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a three-part JWT, got %q", token)
	}

	claims, err := VerifySessionToken("test-secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Username != "joao" || claims.Email != "joao@example.com" {
		t.Errorf("claims = %q/%q, want joao/joao@example.com", claims.Username, claims.Email)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Error("expected a future expiry")
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := SignSessionToken("secret-a", "joao", "joao@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := VerifySessionToken("secret-b", token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}
