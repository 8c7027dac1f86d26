// Package federated verifies identity assertions from external providers.
// Only Google ID tokens are supported.
package federated

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// Identity is the verified subset of an ID token the ledger relies on.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// tokenValidator is satisfied by *idtoken.Validator.
type tokenValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier checks Google ID tokens issued for one OAuth client.
// Signing keys are fetched from Google and cached per their Cache-Control
// header by the idtoken package, so rotated keys are picked up and tokens
// signed with unknown keys are rejected.
type GoogleVerifier struct {
	validator tokenValidator
	clientID  string
}

// NewGoogleVerifier creates a verifier for cfg.ClientID. opts are passed to
// idtoken.NewValidator, e.g. option.WithHTTPClient.
func NewGoogleVerifier(ctx context.Context, cfg config.GoogleConfig, opts ...option.ClientOption) (*GoogleVerifier, error) {
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create google token validator: %w", err)
	}
	return &GoogleVerifier{validator: v, clientID: cfg.ClientID}, nil
}

// Verify validates signature, audience and expiry, then the issuer and the
// claims the reconciler needs. Every failure is ErrInvalidFederatedToken;
// the cause is kept for logs only.
func (g *GoogleVerifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFederatedToken, errors.New("empty id token"))
	}

	payload, err := g.validator.Validate(ctx, raw, g.clientID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFederatedToken, err)
	}
	if !googleIssuers[payload.Issuer] {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFederatedToken, fmt.Errorf("unexpected issuer %q", payload.Issuer))
	}
	if payload.Subject == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFederatedToken, errors.New("missing subject"))
	}

	email := stringClaim(payload.Claims, "email")
	if email == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFederatedToken, errors.New("missing email"))
	}
	// email_verified is absent on some older tokens; only an explicit false is rejected.
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFederatedToken, errors.New("email not verified"))
	}

	return &Identity{
		Subject: payload.Subject,
		Email:   email,
		Name:    stringClaim(payload.Claims, "name"),
		Picture: stringClaim(payload.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
