package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"mozakra/models"
)

func TestHashToken(t *testing.T) {
	sum := sha256.Sum256([]byte("tok-123"))
	if got := hashToken("tok-123"); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("hashToken mismatch: %s", got)
	}
	if hashToken("tok-123") != hashToken("tok-123") {
		t.Fatal("hashToken not deterministic")
	}
	if hashToken("tok-123") == hashToken("tok-124") {
		t.Fatal("distinct tokens hashed alike")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := generateRefreshToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := generateRefreshToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Fatal("refresh tokens must be unique")
	}
}

func TestRefreshTokenCurrent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	live := &models.User{RefreshToken: "hash", RefreshExpiry: now.Add(time.Hour)}
	if !refreshTokenCurrent(live, now) {
		t.Error("unexpired token rejected")
	}

	expired := &models.User{RefreshToken: "hash", RefreshExpiry: now.Add(-time.Minute)}
	if refreshTokenCurrent(expired, now) {
		t.Error("expired token accepted")
	}

	never := &models.User{}
	if refreshTokenCurrent(never, now) {
		t.Error("user without a stored token accepted")
	}
}
