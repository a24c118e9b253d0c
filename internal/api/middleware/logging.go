package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"

	loggerKey = "logger"
)

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := log.WithField("request_id", requestID)
		c.Set(loggerKey, entry)

		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if id, ok := Identity(c); ok {
			fields["user_id"] = id.ID
		}

		e := entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			e.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			e.Warn("request rejected")
		default:
			e.Info("request served")
		}
	}
}

// Logger returns the request-scoped logger, or fallback outside a request.
func Logger(c *gin.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return fallback
}

// Recovery turns a handler panic into a logged 500 and keeps serving.
func Recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		Logger(c, log).WithField("panic", recovered).Error("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	})
}
