package handler

import (
	"errors"
	"net/http"

	"guild-dashboard/internal/api/middleware"
	"guild-dashboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const msgServerNotFound = "Server not found"

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func succeed(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// internalError logs err against the request and answers with a generic
// message only.
func internalError(c *gin.Context, log logrus.FieldLogger, message string, err error) {
	middleware.Logger(c, log).WithError(err).WithField("server_id", c.Param("serverId")).Error(message)
	fail(c, http.StatusInternalServerError, message)
}

// storeError maps store sentinels onto status codes.
func storeError(c *gin.Context, log logrus.FieldLogger, err error, notFound, failure string) {
	switch {
	case errors.Is(err, store.ErrServerNotFound):
		fail(c, http.StatusNotFound, msgServerNotFound)
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrServerExists):
		fail(c, http.StatusConflict, "Server already exists")
	default:
		internalError(c, log, failure, err)
	}
}

// bindJSON decodes the body into dst. An empty body leaves dst zeroed so
// field validation reports what is missing.
func bindJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
