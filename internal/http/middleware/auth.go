// README: Firebase bearer-token auth. Sets the caller's uid and email on the context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetcard/internal/infra"
)

const (
	ctxUID   = "uid"
	ctxEmail = "email"
)

func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if token.Email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token has no email"})
			return
		}
		c.Set(ctxUID, token.UID)
		c.Set(ctxEmail, token.Email)
		c.Next()
	}
}

func CallerUID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

func CallerEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}
