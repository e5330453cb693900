package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/airport/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "user_id"
	claimsKey = "claims"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate requires a valid bearer token and stores its claims on the context.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "authentication required", Code: "unauthenticated"})
			return
		}
		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid token", Code: "unauthenticated"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(claimsKey)
		claims, ok := value.(*auth.Claims)
		if !ok || !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: "admin role required", Code: "forbidden"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
