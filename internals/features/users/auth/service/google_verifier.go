package service

import (
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// GoogleVerifier checks a Google ID token against our client id.
type GoogleVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

type googleVerifier struct {
	clientID string
	v        googleAuthIDTokenVerifier.Verifier
}

// NewGoogleVerifier returns nil when no client id is configured, which
// disables Google sign-in.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	if strings.TrimSpace(clientID) == "" {
		return nil
	}
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, ErrGoogleToken
	}
	if err := g.v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	if claimSet.Sub == "" || claimSet.Email == "" {
		return nil, ErrGoogleToken
	}
	return &GoogleIdentity{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}
