package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/token"
)

// UsernameKey is the gin context key the gate stores the authenticated
// subject under.
const UsernameKey = "username"

// AuthMiddleware creates a Gin middleware validating the bearer token
// and exposing the subject to downstream handlers.
func AuthMiddleware(tokens *token.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.String(http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.String(http.StatusUnauthorized, "Authorization header format must be Bearer <token>")
			c.Abort()
			return
		}

		username, err := tokens.Validate(parts[1])
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				c.String(http.StatusUnauthorized, "Token expired")
				c.Abort()
				return
			}
			logger.Debug("Token validation failed", zap.Error(err))
			c.String(http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(UsernameKey, username)

		c.Next()
	}
}
