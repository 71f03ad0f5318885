package services

import (
	"context"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"pindrop/internal/apperr"
)

// TokenVerifier checks an identity token and yields the external subject
// id. Production uses Firebase; tests substitute fakes.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (uid string, err error)
}

// FirebaseVerifier validates Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if creds := os.Getenv("FIREBASE_CREDENTIALS_FILE"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return "", apperr.Unauthorized("Token expired")
		}
		return "", apperr.Unauthorized("Invalid token")
	}
	return token.UID, nil
}

// DisabledVerifier rejects every token. It stands in when Firebase
// credentials are not configured so the rest of the API stays usable.
type DisabledVerifier struct{}

func (DisabledVerifier) Verify(context.Context, string) (string, error) {
	return "", apperr.Unauthorized("Authentication service not configured")
}
