package handler

import (
	"context"
	"net/http"

	"guild-dashboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReactionRoleStore interface {
	ListReactionRoles(ctx context.Context, serverID string) ([]model.ReactionRole, error)
	UpsertReactionRole(ctx context.Context, rr model.ReactionRole) (bool, error)
	UpdateReactionRole(ctx context.Context, rr model.ReactionRole) error
	DeleteReactionRole(ctx context.Context, serverID, messageID, emoji string) error
}

type reactionRoleRequest struct {
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
	RoleID    string `json:"roleId"`
}

func (r reactionRoleRequest) complete() bool {
	return r.ChannelID != "" && r.MessageID != "" && r.Emoji != "" && r.RoleID != ""
}

func (r reactionRoleRequest) binding(serverID string) model.ReactionRole {
	return model.ReactionRole{
		ServerID:  serverID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		Emoji:     r.Emoji,
		RoleID:    r.RoleID,
	}
}

func ListReactionRoles(s ReactionRoleStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := s.ListReactionRoles(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			internalError(c, log, "Failed to fetch reaction roles", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"data": roles})
	}
}

// AddReactionRole inserts or replaces the binding for (message, emoji).
func AddReactionRole(s ReactionRoleStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reactionRoleRequest
		if !bindJSON(c, &req) {
			return
		}
		if !req.complete() {
			fail(c, http.StatusBadRequest, "channelId, messageId, emoji and roleId are required")
			return
		}

		created, err := s.UpsertReactionRole(c.Request.Context(), req.binding(c.Param("serverId")))
		if err != nil {
			storeError(c, log, err, msgServerNotFound, "Failed to add reaction role")
			return
		}
		if created {
			succeed(c, http.StatusCreated, gin.H{"message": "Reaction role added successfully"})
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Reaction role updated successfully"})
	}
}

func UpdateReactionRole(s ReactionRoleStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reactionRoleRequest
		if !bindJSON(c, &req) {
			return
		}
		if !req.complete() {
			fail(c, http.StatusBadRequest, "channelId, messageId, emoji and roleId are required")
			return
		}

		if err := s.UpdateReactionRole(c.Request.Context(), req.binding(c.Param("serverId"))); err != nil {
			storeError(c, log, err, "Reaction role not found", "Failed to update reaction role")
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Reaction role updated successfully"})
	}
}

func DeleteReactionRole(s ReactionRoleStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reactionRoleRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.MessageID == "" || req.Emoji == "" {
			fail(c, http.StatusBadRequest, "messageId and emoji are required")
			return
		}

		if err := s.DeleteReactionRole(c.Request.Context(), c.Param("serverId"), req.MessageID, req.Emoji); err != nil {
			storeError(c, log, err, "Reaction role not found", "Failed to delete reaction role")
			return
		}
		succeed(c, http.StatusOK, gin.H{"message": "Reaction role deleted successfully"})
	}
}
