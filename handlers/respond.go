package handlers

import (
	"github.com/gin-gonic/gin"
)

// maxTextBytes caps inline text sent to the JSON endpoints
const maxTextBytes = 1 << 20

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
