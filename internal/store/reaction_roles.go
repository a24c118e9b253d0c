package store

import (
	"context"
	"errors"
	"fmt"

	"guild-dashboard/internal/model"

	"gorm.io/gorm"
)

// ListReactionRoles returns every binding for the server, oldest first.
func (s *Store) ListReactionRoles(ctx context.Context, serverID string) ([]model.ReactionRole, error) {
	roles := []model.ReactionRole{}
	if err := s.conn(ctx).Where("server_id = ?", serverID).Order("id asc").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list reaction roles for server %s: %w", serverID, err)
	}
	return roles, nil
}

// UpsertReactionRole stores rr keyed by (server, message, emoji). It reports
// whether a new row was inserted.
func (s *Store) UpsertReactionRole(ctx context.Context, rr model.ReactionRole) (bool, error) {
	created := false
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireServer(tx, rr.ServerID); err != nil {
			return err
		}

		var existing model.ReactionRole
		err := reactionRoleKey(tx, rr.ServerID, rr.MessageID, rr.Emoji).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			row := model.ReactionRole{
				ServerID:  rr.ServerID,
				ChannelID: rr.ChannelID,
				MessageID: rr.MessageID,
				Emoji:     rr.Emoji,
				RoleID:    rr.RoleID,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(model.ReactionRole{ChannelID: rr.ChannelID, RoleID: rr.RoleID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert reaction role for server %s message %s: %w", rr.ServerID, rr.MessageID, err)
	}
	return created, nil
}

// UpdateReactionRole rewrites the channel and role of an existing binding.
func (s *Store) UpdateReactionRole(ctx context.Context, rr model.ReactionRole) error {
	result := reactionRoleKey(s.conn(ctx), rr.ServerID, rr.MessageID, rr.Emoji).
		Model(&model.ReactionRole{}).
		Updates(model.ReactionRole{ChannelID: rr.ChannelID, RoleID: rr.RoleID})
	if result.Error != nil {
		return fmt.Errorf("failed to update reaction role for server %s message %s: %w", rr.ServerID, rr.MessageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReactionRole removes one binding. It returns ErrNotFound when no
// row matched.
func (s *Store) DeleteReactionRole(ctx context.Context, serverID, messageID, emoji string) error {
	result := reactionRoleKey(s.conn(ctx), serverID, messageID, emoji).Delete(&model.ReactionRole{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete reaction role for server %s message %s: %w", serverID, messageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func reactionRoleKey(tx *gorm.DB, serverID, messageID, emoji string) *gorm.DB {
	return tx.Where("server_id = ? AND message_id = ? AND emoji = ?", serverID, messageID, emoji)
}
