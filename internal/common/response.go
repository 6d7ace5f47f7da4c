package common

import "github.com/gin-gonic/gin"

// OK writes the payload as-is. The API contract is flat JSON objects,
// not a code/message/data wrapper, so handlers pass complete bodies.
func OK(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Fail writes the uniform error envelope {"error": msg}.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// FailRetry is Fail plus a hint that the whole operation may be retried later.
func FailRetry(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg, "retry_recommended": true})
}
