package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/uuid"
)

// UserIDKey is the gin context key holding the caller's uuid.UUID.
const UserIDKey = "userID"

// CallerIDExtractor turns a raw bearer token into the caller's user id.
// Implemented by token.Verifier.
type CallerIDExtractor interface {
	ExtractCallerID(raw string) (uuid.UUID, error)
}

// AuthMiddleware verifies the bearer token and sets the caller id in the context.
func AuthMiddleware(verifier CallerIDExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			_ = c.Error(apperrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		userID, err := verifier.ExtractCallerID(raw)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}
