package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"sats-chat.backend/pkg/logger"
	"sats-chat.backend/pkg/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestID attaches a request id to the context for log correlation,
// honoring one supplied by the caller
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = utils.GenerateUUIDv7().String()
		}

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}
