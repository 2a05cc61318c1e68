package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier initializes the Admin SDK from a service account JSON
// document or, when that is empty, from a credentials file.
func NewFirebaseVerifier(ctx context.Context, serviceAccountJSON, credentialsFile string) (*FirebaseVerifier, error) {
	var opt option.ClientOption
	switch {
	case serviceAccountJSON != "":
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	case credentialsFile != "":
		opt = option.WithCredentialsFile(credentialsFile)
	default:
		return nil, errors.New("firebase credentials are not configured")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := token.Claims["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return Anonymous, ErrMissingEmail
	}
	return Verified(email), nil
}
