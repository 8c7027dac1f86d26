package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:    "unit-test-secret",
		Issuer:    "expense-tracker",
		Audience:  "expense-tracker-web",
		ExpiresIn: time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		Base:        models.Base{ID: uuid.New()},
		Email:       "ada@example.com",
		DisplayName: "Ada",
	}
}

func TestIssue(t *testing.T) {
	cfg := testConfig()
	user := testUser()

	raw, err := NewIssuer(cfg).Issue(user)
	require.NoError(t, err)

	claims, err := NewVerifier(cfg).Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.DisplayName)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{cfg.Audience}, claims.Audience)
	assert.True(t, uuid.IsValid(claims.ID), "jti should be a uuid")
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueFreshJTI(t *testing.T) {
	issuer := NewIssuer(testConfig())
	verifier := NewVerifier(testConfig())
	user := testUser()

	a, err := issuer.Issue(user)
	require.NoError(t, err)
	b, err := issuer.Issue(user)
	require.NoError(t, err)

	ca, err := verifier.Parse(a)
	require.NoError(t, err)
	cb, err := verifier.Parse(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestExtractCallerID(t *testing.T) {
	cfg := testConfig()
	user := testUser()

	sign := func(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		t.Helper()
		raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return raw
	}
	registered := func(mod func(*jwt.RegisteredClaims)) *Claims {
		now := time.Now()
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		if mod != nil {
			mod(&c.RegisteredClaims)
		}
		return c
	}

	t.Run("valid token", func(t *testing.T) {
		raw, err := NewIssuer(cfg).Issue(user)
		require.NoError(t, err)

		id, err := NewVerifier(cfg).ExtractCallerID(raw)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("expired within leeway", func(t *testing.T) {
		raw := sign(t, registered(func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Minute))
		}), jwt.SigningMethodHS256, []byte(cfg.Secret))

		id, err := NewVerifier(cfg).ExtractCallerID(raw)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	tests := []struct {
		name string
		raw  func(t *testing.T) string
	}{
		{
			name: "expired beyond leeway",
			raw: func(t *testing.T) string {
				return sign(t, registered(func(c *jwt.RegisteredClaims) {
					c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-10 * time.Minute))
				}), jwt.SigningMethodHS256, []byte(cfg.Secret))
			},
		},
		{
			name: "wrong secret",
			raw: func(t *testing.T) string {
				return sign(t, registered(nil), jwt.SigningMethodHS256, []byte("other-secret"))
			},
		},
		{
			name: "wrong issuer",
			raw: func(t *testing.T) string {
				return sign(t, registered(func(c *jwt.RegisteredClaims) { c.Issuer = "someone-else" }),
					jwt.SigningMethodHS256, []byte(cfg.Secret))
			},
		},
		{
			name: "wrong audience",
			raw: func(t *testing.T) string {
				return sign(t, registered(func(c *jwt.RegisteredClaims) { c.Audience = jwt.ClaimStrings{"mobile"} }),
					jwt.SigningMethodHS256, []byte(cfg.Secret))
			},
		},
		{
			name: "missing expiry",
			raw: func(t *testing.T) string {
				return sign(t, registered(func(c *jwt.RegisteredClaims) { c.ExpiresAt = nil }),
					jwt.SigningMethodHS256, []byte(cfg.Secret))
			},
		},
		{
			name: "subject is not a uuid",
			raw: func(t *testing.T) string {
				return sign(t, registered(func(c *jwt.RegisteredClaims) { c.Subject = "42" }),
					jwt.SigningMethodHS256, []byte(cfg.Secret))
			},
		},
		{
			name: "unsigned token",
			raw: func(t *testing.T) string {
				return sign(t, registered(nil), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)
			},
		},
		{
			name: "garbage",
			raw:  func(t *testing.T) string { return "not-a-token" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewVerifier(cfg).ExtractCallerID(tt.raw(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
			assert.Equal(t, uuid.Nil, id)
		})
	}
}
