package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	token, err := manager.Issue("user-1", "agent@brightreel.com", "agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "agent@brightreel.com" || claims.Role != "agent" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != issuer {
		t.Fatalf("expected issuer %s, got %s", issuer, claims.Issuer)
	}

	if _, err := manager.Verify(token + "tampered"); err == nil {
		t.Fatalf("expected verify error for tampered token")
	}
}

func TestTokenManager_RejectsForeignIssuer(t *testing.T) {
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := foreign.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign foreign token: %v", err)
	}

	manager := NewTokenManager("secret", time.Hour)
	if _, err := manager.Verify(signed); err == nil {
		t.Fatalf("expected token from a different issuer to be rejected")
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	manager := NewTokenManager("secret", time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	if _, err := manager.Verify(signed); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestTokenManager_EmptySecret(t *testing.T) {
	manager := NewTokenManager("", time.Hour)
	if _, err := manager.Issue("user", "agent@brightreel.com", "agent"); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
}
