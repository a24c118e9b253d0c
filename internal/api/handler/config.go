package handler

import (
	"context"
	"net/http"
	"strings"

	"guild-dashboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WelcomeLeaveStore interface {
	GetWelcomeLeave(ctx context.Context, serverID string) (*model.WelcomeLeaveConfig, error)
	UpsertWelcomeLeave(ctx context.Context, serverID string, upd model.WelcomeLeaveUpdate) error
	DeleteWelcomeLeave(ctx context.Context, serverID string) error
}

// ChannelConfigStore is a config holding a single channel per server.
type ChannelConfigStore[T any] interface {
	Get(ctx context.Context, serverID string) (*T, error)
	Set(ctx context.Context, serverID, channelID string) error
	Delete(ctx context.Context, serverID string) error
}

type welcomeLeaveRequest struct {
	WelcomeChannel   *string `json:"welcomeChannel"`
	LeaveChannel     *string `json:"leaveChannel"`
	WelcomeChannelID *string `json:"welcomeChannelId"`
	LeaveChannelID   *string `json:"leaveChannelId"`
}

func (r welcomeLeaveRequest) update() model.WelcomeLeaveUpdate {
	upd := model.WelcomeLeaveUpdate{WelcomeChannelID: r.WelcomeChannel, LeaveChannelID: r.LeaveChannel}
	if upd.WelcomeChannelID == nil {
		upd.WelcomeChannelID = r.WelcomeChannelID
	}
	if upd.LeaveChannelID == nil {
		upd.LeaveChannelID = r.LeaveChannelID
	}
	return upd
}

func GetWelcomeLeave(s WelcomeLeaveStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := s.GetWelcomeLeave(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			storeError(c, log, err, "Configuration not found", "Failed to fetch server configuration")
			return
		}
		succeed(c, http.StatusOK, gin.H{"config": cfg})
	}
}

// UpdateWelcomeLeave writes whichever of the two channels the body names.
func UpdateWelcomeLeave(s WelcomeLeaveStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req welcomeLeaveRequest
		if !bindJSON(c, &req) {
			return
		}

		upd := req.update()
		if upd.Empty() {
			fail(c, http.StatusBadRequest, "welcomeChannel or leaveChannel is required")
			return
		}
		if (upd.WelcomeChannelID != nil && *upd.WelcomeChannelID == "") ||
			(upd.LeaveChannelID != nil && *upd.LeaveChannelID == "") {
			fail(c, http.StatusBadRequest, "Channel IDs must not be empty")
			return
		}

		if err := s.UpsertWelcomeLeave(c.Request.Context(), c.Param("serverId"), upd); err != nil {
			storeError(c, log, err, msgServerNotFound, "Failed to update server configuration")
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Configuration updated successfully"})
	}
}

func DeleteWelcomeLeave(s WelcomeLeaveStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.DeleteWelcomeLeave(c.Request.Context(), c.Param("serverId")); err != nil {
			internalError(c, log, "Failed to delete server configuration", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Configuration deleted successfully"})
	}
}

// ChannelConfig describes the HTTP face of one single-channel config.
type ChannelConfig[T any] struct {
	Store ChannelConfigStore[T]
	// Field is the JSON body field holding the channel ID.
	Field string
	// Name is used in user-facing messages, e.g. "Log channel".
	Name string
	Log  logrus.FieldLogger
}

func (h ChannelConfig[T]) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := h.Store.Get(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			storeError(c, h.Log, err, h.Name+" configuration not found", "Failed to fetch "+strings.ToLower(h.Name)+" configuration")
			return
		}
		succeed(c, http.StatusOK, gin.H{"config": cfg})
	}
}

func (h ChannelConfig[T]) Set() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if !bindJSON(c, &body) {
			return
		}
		channelID, _ := body[h.Field].(string)
		if channelID == "" {
			fail(c, http.StatusBadRequest, h.Field+" is required")
			return
		}

		if err := h.Store.Set(c.Request.Context(), c.Param("serverId"), channelID); err != nil {
			storeError(c, h.Log, err, msgServerNotFound, "Failed to save "+strings.ToLower(h.Name)+" configuration")
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": h.Name + " configuration saved successfully"})
	}
}

func (h ChannelConfig[T]) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.Store.Delete(c.Request.Context(), c.Param("serverId")); err != nil {
			internalError(c, h.Log, "Failed to delete "+strings.ToLower(h.Name)+" configuration", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": h.Name + " configuration deleted successfully"})
	}
}
