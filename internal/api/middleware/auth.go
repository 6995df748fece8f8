package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stitts-dev/dfs-lineup-builder/pkg/utils"
)

const (
	ContextOwnerID       = "owner_id"
	ContextAuthenticated = "authenticated"

	// AnonymousOwner owns sessions created without a token.
	AnonymousOwner = "anonymous"
)

// Claims identify the lineup owner. The owner is the token subject.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func parseToken(header, secret string) (*Claims, bool) {
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header || tokenString == "" {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}

func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		claims, ok := parseToken(authHeader, jwtSecret)
		if !ok {
			utils.SendUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextOwnerID, claims.Subject)
		c.Set(ContextAuthenticated, true)
		c.Next()
	}
}

// OptionalAuth attaches the token owner when a valid token is present and
// falls back to the anonymous owner otherwise.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseToken(c.GetHeader("Authorization"), jwtSecret); ok {
			c.Set(ContextOwnerID, claims.Subject)
			c.Set(ContextAuthenticated, true)
		}
		c.Next()
	}
}

// OwnerID returns the request's owner, or AnonymousOwner.
func OwnerID(c *gin.Context) string {
	if v, ok := c.Get(ContextOwnerID); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return AnonymousOwner
}
