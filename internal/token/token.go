// Package token mints and verifies the session tokens handed out at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

// clockSkew is the tolerance applied to exp, nbf and iat when verifying.
const clockSkew = 5 * time.Minute

// Claims represents the claims in a session token.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// Issuer signs session tokens with the configured HMAC secret.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer creates an Issuer from validated JWT settings.
func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{
		key:      []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.ExpiresIn,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Issue generates a signed token for user. Every call gets a fresh jti.
func (i *Issuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := &Claims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verifier checks bearer tokens minted by an Issuer with the same settings.
type Verifier struct {
	key    []byte
	parser *jwt.Parser
}

// NewVerifier creates a Verifier from validated JWT settings.
func NewVerifier(cfg config.JWTConfig) *Verifier {
	return &Verifier{
		key: []byte(cfg.Secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// Parse validates raw and returns its claims.
func (v *Verifier) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ExtractCallerID returns the user id carried by a valid token. Any failure,
// including a subject that is not a UUID, is ErrUnauthenticated.
func (v *Verifier) ExtractCallerID(raw string) (uuid.UUID, error) {
	claims, err := v.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrUnauthenticated, err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrUnauthenticated, errors.New("subject is not a user id"))
	}
	return id, nil
}
