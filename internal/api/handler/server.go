package handler

import (
	"context"
	"net/http"

	"guild-dashboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ServerStore interface {
	GetServer(ctx context.Context, serverID string) (*model.Server, error)
	CreateServer(ctx context.Context, serverID, name string) (*model.Server, error)
	EnsureServer(ctx context.Context, serverID, name string) (*model.Server, error)
	DeleteServer(ctx context.Context, serverID string) error
}

type serverRequest struct {
	ServerID   string `json:"serverId"`
	ServerName string `json:"serverName"`
}

// GetServer handles fetching the stored record of a single server
func GetServer(s ServerStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		server, err := s.GetServer(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			storeError(c, log, err, msgServerNotFound, "Failed to fetch server")
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Server loaded successfully", "data": server})
	}
}

func CreateServer(s ServerStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req serverRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.ServerID == "" || req.ServerName == "" {
			fail(c, http.StatusBadRequest, "serverId and serverName are required")
			return
		}

		server, err := s.CreateServer(c.Request.Context(), req.ServerID, req.ServerName)
		if err != nil {
			storeError(c, log, err, msgServerNotFound, "Failed to create server")
			return
		}
		succeed(c, http.StatusCreated, gin.H{"message": "Server created successfully", "data": server})
	}
}

// EnsureServer returns the stored server, creating it first when needed.
func EnsureServer(s ServerStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req serverRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.ServerID == "" || req.ServerName == "" {
			fail(c, http.StatusBadRequest, "serverId and serverName are required")
			return
		}

		server, err := s.EnsureServer(c.Request.Context(), req.ServerID, req.ServerName)
		if err != nil {
			internalError(c, log, "Failed to ensure server exists", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Server exists", "data": server})
	}
}

// DeleteServer removes the server and, through the schema, all its configs.
func DeleteServer(s ServerStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.DeleteServer(c.Request.Context(), c.Param("serverId")); err != nil {
			storeError(c, log, err, msgServerNotFound, "Failed to delete server")
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Server deleted successfully"})
	}
}
