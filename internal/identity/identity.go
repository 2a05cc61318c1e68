// Package identity verifies bearer tokens against an external identity
// provider and represents the outcome as a verified email or anonymous.
package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrMissingEmail = errors.New("token has no email claim")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is either a verified email or anonymous. The zero value is
// anonymous.
type Identity struct {
	email string
}

var Anonymous = Identity{}

func Verified(email string) Identity {
	return Identity{email: email}
}

// Email returns the verified email and true, or "" and false when anonymous.
func (i Identity) Email() (string, bool) {
	return i.email, i.email != ""
}

func (i Identity) IsVerified() bool {
	return i.email != ""
}

func (i Identity) String() string {
	if i.email == "" {
		return "anonymous"
	}
	return i.email
}

// Verifier checks a raw bearer token and returns the identity it proves.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// BearerToken extracts the token from an Authorization header value. It
// returns false when the header is absent or not of the form "Bearer <token>".
func BearerToken(header string) (string, bool) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", false
	}

	parts := strings.Fields(raw)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// NoneVerifier treats every token as unverifiable.
type NoneVerifier struct{}

func (NoneVerifier) Verify(context.Context, string) (Identity, error) {
	return Anonymous, ErrInvalidToken
}
