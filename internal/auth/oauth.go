// Package auth exchanges GitHub OAuth authorization codes for user tokens.
package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

// Exchanger performs the authorization-code half of the GitHub OAuth flow.
type Exchanger struct {
	conf   *oauth2.Config
	logger *zap.Logger
}

// NewExchanger creates an Exchanger for the given OAuth app credentials.
func NewExchanger(clientID, clientSecret string, logger *zap.Logger) *Exchanger {
	return &Exchanger{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     githuboauth.Endpoint,
		},
		logger: logger,
	}
}

// Exchange trades an authorization code for a user access token.
func (e *Exchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := e.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("could not exchange authorization code: %w", err)
	}
	return token, nil
}
