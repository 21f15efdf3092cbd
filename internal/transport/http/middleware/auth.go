package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/ErlanBelekov/personen-api/internal/metrics"
	"github.com/ErlanBelekov/personen-api/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const (
	// UsernameKey is the gin context key holding the authenticated username.
	UsernameKey = "username"

	msgMissingCredential = "Missing credential"
	msgInvalidCredential = "Invalid or expired credential"
)

// TokenVerifier is satisfied by *token.Service.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// Auth rejects requests without a valid Bearer token. A missing credential is
// 401; a credential that fails verification is 403. On success the username is
// stored on both the gin context and the request context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		rawToken, ok := strings.CutPrefix(header, "Bearer ")
		rawToken = strings.TrimSpace(rawToken)
		if !ok || rawToken == "" {
			metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgMissingCredential})
			return
		}

		username, err := verifier.Verify(rawToken)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, domain.ErrTokenExpired) {
				reason = "expired"
			}
			metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": msgInvalidCredential,
				"error":   "token " + reason,
			})
			return
		}

		c.Set(UsernameKey, username)
		c.Request = c.Request.WithContext(reqctx.WithUsername(c.Request.Context(), username))
		c.Next()
	}
}
