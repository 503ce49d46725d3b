package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "sats-chat.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response with the status mapped from the domain
// error taxonomy
func Error(c *gin.Context, err error) {
	status := domainerrors.StatusFor(err)
	c.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}
