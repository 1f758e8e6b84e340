package response

import "github.com/gin-gonic/gin"

// OK writes the payload as-is. Handlers shape their own success bodies so the
// frontend can consume them without unwrapping an envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}
