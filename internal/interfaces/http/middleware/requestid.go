package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"panelsync/internal/shared/constants"
)

const HeaderRequestID = "X-Request-ID"

// RequestID propagates X-Request-ID, generating one when the caller did not.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}
