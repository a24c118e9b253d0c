package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

func Health(db Pinger, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "unavailable"})
			return
		}
		succeed(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
