package github

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
)

// maxAppJWTDuration is the longest lifetime GitHub accepts for App JWTs.
const maxAppJWTDuration = 10 * time.Minute

// AppAuth mints GitHub App JWTs and exchanges them for installation tokens.
// It backs the unauthenticated issue-listing path, which reads the source
// organization's repositories as the App rather than as a user.
type AppAuth struct {
	appID      string
	privateKey *rsa.PrivateKey
	logger     *zap.Logger
}

// NewAppAuth creates an AppAuth from the App id and its PEM-encoded RSA key.
func NewAppAuth(appID string, privateKeyPEM []byte, logger *zap.Logger) (*AppAuth, error) {
	if appID == "" {
		return nil, fmt.Errorf("app ID cannot be empty")
	}

	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &AppAuth{
		appID:      appID,
		privateKey: key,
		logger:     logger,
	}, nil
}

// GenerateJWT signs a short-lived RS256 JWT identifying the App.
func (a *AppAuth) GenerateJWT() (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    a.appID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(maxAppJWTDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(a.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign app JWT: %w", err)
	}
	return signed, nil
}

// InstallationClient returns a Client authenticated with an installation token
// for the given organization. If the App is not installed in that organization
// the first installation found is used instead.
func (a *AppAuth) InstallationClient(ctx context.Context, org string) (*Client, error) {
	appJWT, err := a.GenerateJWT()
	if err != nil {
		return nil, err
	}

	appClient := github.NewClient(nil).WithAuthToken(appJWT)

	installID, err := a.findInstallation(ctx, appClient, org)
	if err != nil {
		return nil, err
	}

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installID, nil)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("installation token for installation %d", installID))
	}

	return NewClient(token.GetToken(), a.logger), nil
}

func (a *AppAuth) findInstallation(ctx context.Context, appClient *github.Client, org string) (int64, error) {
	install, _, err := appClient.Apps.FindOrganizationInstallation(ctx, org)
	if err == nil {
		return install.GetID(), nil
	}

	a.logger.Debug("no organization installation found, trying first installation",
		zap.String("org", org),
		zap.Error(err),
	)

	installs, _, err := appClient.Apps.ListInstallations(ctx, &github.ListOptions{PerPage: 1})
	if err != nil {
		return 0, wrapAPIError(err, "app installations")
	}
	if len(installs) == 0 {
		return 0, &APIError{
			Kind:     KindNotFound,
			Resource: "app installations",
			Message:  "app is not installed anywhere",
		}
	}
	return installs[0].GetID(), nil
}

// parsePrivateKey parses a PEM-encoded RSA private key in PKCS#1 or PKCS#8
// format.
func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	if block.Type == "RSA PRIVATE KEY" {
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return rsaKey, nil
}
