package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	token, exp, err := tm.GenerateToken("c1", domain.UserTypeCustomer)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if remaining := time.Until(exp); remaining < 14*time.Minute || remaining > 16*time.Minute {
		t.Errorf("expiry %v not near the configured 15m ttl", remaining)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "c1" {
		t.Errorf("uid = %q, want c1", claims.UserID)
	}
	if claims.Type != domain.UserTypeCustomer {
		t.Errorf("userType = %q, want CUSTOMER", claims.Type)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 15).GenerateToken("c1", domain.UserTypeCustomer)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("secret-b", 15).ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret was accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := tm.ParseToken(raw); err == nil {
			t.Errorf("malformed token %q was accepted", raw)
		}
	}
}

func TestTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	_, exp, err := tm.GenerateToken("c1", domain.UserTypeCustomer)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if remaining := time.Until(exp); remaining < 59*time.Minute {
		t.Errorf("zero ttl should fall back to 60m, got %v", remaining)
	}
}
