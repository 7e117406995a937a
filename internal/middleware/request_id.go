package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===========================================================================
// Request ID Middleware
// Attach a unique ID to every request for tracing and log correlation.
// The ID is stored in the gin context and echoed in the response header.
// ===========================================================================

const (
	// RequestIDKey key under which the request ID is stored in the gin context
	RequestIDKey = "request_id"

	// RequestIDHeader header carrying the request ID
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns a unique ID to each request. A client-supplied
// X-Request-ID is kept; otherwise a fresh UUID is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID returns the request ID from the gin context,
// or an empty string when none was set.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}
