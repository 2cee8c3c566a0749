package response

import "github.com/gin-gonic/gin"

// Error is the JSON error envelope every endpoint returns on failure.
type Error struct {
	Error string `json:"error"`
}

// JSON writes data with a no-store cache header; all API payloads carry
// ephemeral credentials or session state and must not be cached.
func JSON(c *gin.Context, status int, data any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Err writes the {error: message} envelope with the given HTTP status.
func Err(c *gin.Context, status int, message string) {
	JSON(c, status, Error{Error: message})
}
