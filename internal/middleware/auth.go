package middleware

import (
	"net/http"
	"strings"

	"mentorly/config"
	"mentorly/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the Bearer JWT and sets the wallet address in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("address", claims.Address)
		c.Set("claims", claims)
		c.Next()
	}
}

// GetAddress returns the authenticated wallet address from context (must be
// used after AuthRequired).
func GetAddress(c *gin.Context) string {
	v, _ := c.Get("address")
	if v == nil {
		return ""
	}
	return v.(string)
}
