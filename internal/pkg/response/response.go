package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error renders the uniform failure shape. The message is intentionally
// terse; details stay in the logs.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
