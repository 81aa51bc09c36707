package credential

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func mustSigner(t *testing.T, secret string) *Signer {
	t.Helper()
	s, err := NewSigner(secret)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return s
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := mustSigner(t, "ticket-secret")
	ticketID, userID, eventID := uuid.New(), uuid.New(), uuid.New()
	at := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

	tok, err := s.Sign(ticketID, userID, eventID, at, 3)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.ID != ticketID.String() || claims.Subject != userID.String() || claims.EventID != eventID.String() {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Seq != 3 || claims.PurchasedAt != at.Unix() {
		t.Fatalf("seq/purchased_at mismatch: %+v", claims)
	}
}

func TestTamperedTokenFails(t *testing.T) {
	s := mustSigner(t, "ticket-secret")
	tok, err := s.Sign(uuid.New(), uuid.New(), uuid.New(), time.Now(), 1)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}

	// forge a payload with a different seq, keep the original signature
	forged := Claims{EventID: uuid.NewString(), Seq: 99, RegisteredClaims: jwt.RegisteredClaims{
		ID: uuid.NewString(), Subject: uuid.NewString(), Issuer: Issuer,
	}}
	other, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString([]byte("attacker"))
	otherParts := strings.Split(other, ".")
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	cases := map[string]string{
		"payload swapped": tampered,
		"wrong secret":    other,
		"garbage":         "not-a-token",
		"empty":           "",
		"truncated sig":   tok[:len(tok)-4],
	}
	for name, in := range cases {
		if _, err := s.Verify(in); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("%s: want ErrInvalidCredential, got %v", name, err)
		}
	}
}

func TestRejectsNoneAlgorithm(t *testing.T) {
	s := mustSigner(t, "ticket-secret")
	claims := Claims{EventID: uuid.NewString(), Seq: 1, RegisteredClaims: jwt.RegisteredClaims{
		ID: uuid.NewString(), Subject: uuid.NewString(), Issuer: Issuer,
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := s.Verify(tok); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("alg=none must be rejected, got %v", err)
	}
}

func TestEmptySecretRefused(t *testing.T) {
	if _, err := NewSigner("  "); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
