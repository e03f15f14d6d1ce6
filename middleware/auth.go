package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/dungeon-crawler/server/config"
	"golang.org/x/crypto/bcrypt"
)

const ClientIDKey = "client_id"

// Auth validates the Bearer session token issued by the session endpoint.
func Auth(sec config.SecurityConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(tokenStr, sec.JWTSecret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx.Set(ClientIDKey, claims.ClientID)
		ctx.Next()
	}
}

// GetClientID retrieves the authenticated client ID from the Gin context.
func GetClientID(c *gin.Context) string {
	if v, exists := c.Get(ClientIDKey); exists {
		return v.(string)
	}
	return ""
}

const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards destructive endpoints. The configured value is a bcrypt
// hash; an empty hash disables the routes entirely.
func AdminKey(sec config.SecurityConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if sec.AdminKeyHash == "" {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin routes disabled"})
			return
		}
		key := ctx.GetHeader(AdminKeyHeader)
		if key == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing admin key"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(sec.AdminKeyHash), []byte(key)); err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "wrong admin key"})
			return
		}
		ctx.Next()
	}
}
