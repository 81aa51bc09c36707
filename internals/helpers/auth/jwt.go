package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenInvalid = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid token")
	ErrTokenExpired = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
	ErrMissingKey   = fiber.NewError(fiber.StatusInternalServerError, "Missing JWT secret")
)

// SessionClaims backs both access and refresh tokens; Typ tells them apart.
type SessionClaims struct {
	Typ  string `json:"typ"`
	Role string `json:"role,omitempty"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (c SessionClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Subject))
}

// SignSession issues an HS256 token for userID.
func SignSession(typ string, userID uuid.UUID, role, name, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, ErrMissingKey
	}
	exp := now.Add(ttl)
	claims := SessionClaims{
		Typ:  typ,
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return signed, exp, err
}

// ParseSession verifies signature, expiry and token type.
func ParseSession(raw, typ, secret string) (*SessionClaims, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingKey
	}
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Typ != typ {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
