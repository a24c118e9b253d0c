package model

import "time"

// WelcomeLeaveConfig holds the channels the bot greets joins and announces
// leaves in. Either side may be unset.
type WelcomeLeaveConfig struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	ServerID         string    `gorm:"size:32;uniqueIndex;not null" json:"server_id"`
	WelcomeChannelID *string   `gorm:"size:32" json:"welcome_channel_id"`
	LeaveChannelID   *string   `gorm:"size:32" json:"leave_channel_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (WelcomeLeaveConfig) TableName() string { return "welcome_leave_configs" }

// WelcomeLeaveUpdate carries a partial update; nil fields are left untouched.
type WelcomeLeaveUpdate struct {
	WelcomeChannelID *string
	LeaveChannelID   *string
}

func (u WelcomeLeaveUpdate) Empty() bool {
	return u.WelcomeChannelID == nil && u.LeaveChannelID == nil
}

type LogChannel struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	ServerID     string    `gorm:"size:32;uniqueIndex;not null" json:"server_id"`
	LogChannelID string    `gorm:"size:32;not null" json:"log_channel_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (LogChannel) TableName() string { return "log_channels" }

// DynamicVoiceChannel names the voice channel whose occupants get a
// personal clone spawned by the bot.
type DynamicVoiceChannel struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	ServerID      string    `gorm:"size:32;uniqueIndex;not null" json:"server_id"`
	BaseChannelID string    `gorm:"size:32;not null" json:"base_channel_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (DynamicVoiceChannel) TableName() string { return "dynamic_voice_channels" }

type TrackingMemberConfig struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	ServerID          string    `gorm:"size:32;uniqueIndex;not null" json:"server_id"`
	TrackingChannelID string    `gorm:"size:32;not null" json:"tracking_channel_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (TrackingMemberConfig) TableName() string { return "tracking_members" }
