package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/veribill/veribill/internal/identity"
)

func TestIssueAndVerifyToken(t *testing.T) {
	svc := NewService("test-signing-secret", time.Hour)
	user := identity.User{ID: "7b5a1c9e-0000-4000-8000-000000000001"}

	token, exp, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expected ~1h expiry, got %s", until)
	}

	sub, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, sub)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-one", time.Hour)
	verifier := NewService("secret-two", time.Hour)

	token, _, err := issuer.IssueToken(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-signing-secret", -time.Minute)

	token, _, err := svc.IssueToken(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService("test-signing-secret", time.Hour)
	if _, err := svc.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
