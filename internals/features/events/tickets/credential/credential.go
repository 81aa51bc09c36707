// Package credential signs and verifies ticket tokens. A token is an HS256 JWT:
// tamper-evident, not encrypted, verifiable without touching the store.
package credential

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const Issuer = "afrikticket"

var ErrInvalidCredential = fiber.NewError(fiber.StatusBadRequest, "Invalid ticket token")

type Claims struct {
	EventID     string `json:"event_id"`
	PurchasedAt int64  `json:"purchased_at"`
	Seq         int    `json:"seq"`
	jwt.RegisteredClaims
}

func (c *Claims) TicketID() (uuid.UUID, error) { return uuid.Parse(c.ID) }
func (c *Claims) UserID() (uuid.UUID, error)   { return uuid.Parse(c.Subject) }

type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("ticket signing secret is empty")
	}
	return &Signer{secret: []byte(secret)}, nil
}

func (s *Signer) Sign(ticketID, userID, eventID uuid.UUID, purchasedAt time.Time, seq int) (string, error) {
	claims := Claims{
		EventID:     eventID.String(),
		PurchasedAt: purchasedAt.Unix(),
		Seq:         seq,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       ticketID.String(),
			Subject:  userID.String(),
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(purchasedAt),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign ticket: %w", err)
	}
	return tok, nil
}

// Verify checks signature and shape only. Whether the ticket is still valid
// is a question for the store.
func (s *Signer) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidCredential
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.Issuer != Issuer || claims.Seq < 1 {
		return nil, ErrInvalidCredential
	}
	if _, err := claims.TicketID(); err != nil {
		return nil, ErrInvalidCredential
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidCredential
	}
	if _, err := uuid.Parse(claims.EventID); err != nil {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}
