package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the context key carrying the request id; handlers read it
// when logging server-side failures.
const RequestIDKey = "request_id"

// RequestID tags each request with an X-Request-ID, generating one when the
// caller did not supply it. The id is echoed on the response so clients can
// quote it in bug reports.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger writes one access-log line per request: request id, method, path,
// status, response size, latency, and client IP.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}
		log.Printf("middleware.Logger: [%s] %s %s %d %dB %s %s",
			c.GetString(RequestIDKey),
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
