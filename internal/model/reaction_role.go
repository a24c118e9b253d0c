package model

import "time"

// ReactionRole grants RoleID to members reacting with Emoji on MessageID.
// (ServerID, MessageID, Emoji) is unique.
type ReactionRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ServerID  string    `gorm:"size:32;not null;uniqueIndex:idx_reaction_roles_key,priority:1" json:"server_id"`
	ChannelID string    `gorm:"size:32;not null" json:"channel_id"`
	MessageID string    `gorm:"size:32;not null;uniqueIndex:idx_reaction_roles_key,priority:2" json:"message_id"`
	Emoji     string    `gorm:"size:255;not null;uniqueIndex:idx_reaction_roles_key,priority:3" json:"emoji"`
	RoleID    string    `gorm:"size:32;not null" json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReactionRole) TableName() string { return "reaction_roles" }
