package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// AuthorizationHeader is the HTTP header name for authorization tokens
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the expected prefix for Bearer tokens in the Authorization header
	BearerPrefix = "Bearer "
	// ClaimsContextKey is the Gin context key for storing JWT claims
	ClaimsContextKey = "claims"
)

// JWTMiddleware creates a Gin middleware that requires valid JWT
// authentication and stores the verified claims on the request context.
func JWTMiddleware(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtManager.Verify(tokenString)
		if err != nil {
			var message string
			switch err {
			case ErrExpiredToken:
				message = "Token has expired"
			case ErrInvalidToken:
				message = "Invalid token"
			default:
				message = "Token verification failed"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// GetClaims extracts JWT claims from the Gin context if they exist.
func GetClaims(c *gin.Context) (*Claims, bool) {
	claims, exists := c.Get(ClaimsContextKey)
	if !exists {
		return nil, false
	}
	accountClaims, ok := claims.(*Claims)
	return accountClaims, ok
}
