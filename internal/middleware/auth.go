// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUserName = "username"
)

// TokenValidator resolves a bearer token into its claims.
type TokenValidator interface {
	ValidateToken(token string) (*utils.JWTClaims, error)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func AuthRequired(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		token, ok := bearerToken(authHeader)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
			c.Abort()
			return
		}

		// Set user info in context
		c.Set(ContextUserID, claims.NameID)
		c.Set(ContextUserName, claims.Subject)
		c.Next()
	}
}

func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		// Set user info in context if token is valid
		c.Set(ContextUserID, claims.NameID)
		c.Set(ContextUserName, claims.Subject)
		c.Next()
	}
}
