package model

import "time"

// Server is the root row for a Discord guild. Every config table hangs off
// ServerID and is removed with it.
type Server struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	ServerID   string    `gorm:"size:32;uniqueIndex;not null" json:"server_id"`
	ServerName string    `gorm:"size:255" json:"server_name"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	WelcomeLeave   *WelcomeLeaveConfig   `gorm:"foreignKey:ServerID;references:ServerID;constraint:OnDelete:CASCADE" json:"-"`
	LogChannel     *LogChannel           `gorm:"foreignKey:ServerID;references:ServerID;constraint:OnDelete:CASCADE" json:"-"`
	DynamicVoice   *DynamicVoiceChannel  `gorm:"foreignKey:ServerID;references:ServerID;constraint:OnDelete:CASCADE" json:"-"`
	TrackingMember *TrackingMemberConfig `gorm:"foreignKey:ServerID;references:ServerID;constraint:OnDelete:CASCADE" json:"-"`
	ReactionRoles  []ReactionRole        `gorm:"foreignKey:ServerID;references:ServerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Server) TableName() string { return "servers" }

// All lists the models in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Server{},
		&WelcomeLeaveConfig{},
		&LogChannel{},
		&DynamicVoiceChannel{},
		&TrackingMemberConfig{},
		&ReactionRole{},
	}
}
