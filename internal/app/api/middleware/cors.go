package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware serves the storefront, which runs on a different origin.
// Wildcard is intentional: every endpoint is either public or protected by
// its own credential (admin key, webhook signature).
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, x-api-key, stripe-signature")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
