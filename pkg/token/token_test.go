package token

import (
	"strings"
	"testing"
	"time"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := GenerateAccessToken(42, "sess-1", secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	id, err := UserID(claims)
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if id != 42 {
		t.Fatalf("user id=%d want=42", id)
	}
	if claims.ID != "sess-1" {
		t.Fatalf("session id=%q want=sess-1", claims.ID)
	}
}

func TestVerifyToken_Rejects(t *testing.T) {
	expired, err := GenerateAccessToken(1, "s", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := VerifyToken(expired, secret); err == nil {
		t.Fatalf("expired token accepted")
	}

	valid, err := GenerateAccessToken(1, "s", secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := VerifyToken(valid, []byte(strings.Repeat("x", 32))); err == nil {
		t.Fatalf("token with foreign key accepted")
	}
}

func TestRefreshToken(t *testing.T) {
	tok, hash, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if hash != HashRefreshToken(tok) {
		t.Fatalf("hash mismatch")
	}

	if !VerifyRefreshToken(tok, hash) {
		t.Fatalf("refresh token does not match its own hash")
	}
	if VerifyRefreshToken(tok+"x", hash) {
		t.Fatalf("tampered refresh token accepted")
	}
}
