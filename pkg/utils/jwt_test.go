package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenPairRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	access, refresh, err := GenerateTokenPair("abc123", "User", "user", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	claims, err := ValidateToken(access, TokenAccess)
	if err != nil {
		t.Fatalf("ValidateToken(access) error = %v", err)
	}
	if claims.ActorID != "abc123" || claims.ActorKind != "User" || claims.Role != "user" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ValidateToken(refresh, TokenRefresh); err != nil {
		t.Errorf("ValidateToken(refresh) error = %v", err)
	}
}

func TestTokenKindEnforced(t *testing.T) {
	SetSecret("test-secret")

	access, refresh, err := GenerateTokenPair("abc123", "Staff", "staff", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := ValidateToken(refresh, TokenAccess); err == nil {
		t.Error("a refresh token must not validate as an access token")
	}
	if _, err := ValidateToken(access, TokenRefresh); err == nil {
		t.Error("an access token must not validate as a refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	SetSecret("test-secret")

	access, _, err := GenerateTokenPair("abc123", "User", "user", -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if _, err := ValidateToken(access, TokenAccess); err == nil {
		t.Error("expired token accepted")
	}
}

func TestTamperedSecretRejected(t *testing.T) {
	SetSecret("test-secret")
	access, _, err := GenerateTokenPair("abc123", "User", "user", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	SetSecret("rotated-secret")
	defer SetSecret("test-secret")
	if _, err := ValidateToken(access, TokenAccess); err == nil {
		t.Error("token signed with the old secret accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUnsetSecretRefusesTokens(t *testing.T) {
	SetSecret("test-secret")
	access, _, err := GenerateTokenPair("abc123", "User", "user", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	SetSecret("")
	defer SetSecret("test-secret")

	if _, _, err := GenerateTokenPair("abc123", "User", "user", time.Minute, time.Hour); !errors.Is(err, ErrSecretUnset) {
		t.Errorf("GenerateTokenPair() error = %v, want ErrSecretUnset", err)
	}
	if _, err := ValidateToken(access, TokenAccess); !errors.Is(err, ErrSecretUnset) {
		t.Errorf("ValidateToken() error = %v, want ErrSecretUnset", err)
	}
}
