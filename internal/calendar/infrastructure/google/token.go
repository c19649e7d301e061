package google

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	authURL  = "https://accounts.google.com/o/oauth2/auth"
	tokenURL = "https://oauth2.googleapis.com/token"
)

// StaticCredentials supplies token sources from a stored refresh token.
// Single-user deployments configure one credential set via the environment.
type StaticCredentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenSource builds an auto-refreshing token source for the user.
func (c StaticCredentials) TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error) {
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return nil, fmt.Errorf("google credentials not configured")
	}

	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
		Scopes: []string{"https://www.googleapis.com/auth/calendar.readonly"},
	}
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken}), nil
}
