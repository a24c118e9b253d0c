package store

import (
	"context"
	"fmt"

	"guild-dashboard/internal/model"
)

func (s *Store) GetWelcomeLeave(ctx context.Context, serverID string) (*model.WelcomeLeaveConfig, error) {
	return firstByServer[model.WelcomeLeaveConfig](ctx, s.db, serverID)
}

// UpsertWelcomeLeave writes only the fields set in upd. A new row gets NULL
// for the fields left out.
func (s *Store) UpsertWelcomeLeave(ctx context.Context, serverID string, upd model.WelcomeLeaveUpdate) error {
	attrs := map[string]any{}
	if upd.WelcomeChannelID != nil {
		attrs["welcome_channel_id"] = upd.WelcomeChannelID
	}
	if upd.LeaveChannelID != nil {
		attrs["leave_channel_id"] = upd.LeaveChannelID
	}

	err := upsertByServer(ctx, s.db, serverID, model.WelcomeLeaveConfig{ServerID: serverID}, attrs)
	if err != nil {
		return fmt.Errorf("failed to upsert welcome-leave config for server %s: %w", serverID, err)
	}
	return nil
}

func (s *Store) DeleteWelcomeLeave(ctx context.Context, serverID string) error {
	if err := deleteByServer[model.WelcomeLeaveConfig](ctx, s.db, serverID); err != nil {
		return fmt.Errorf("failed to delete welcome-leave config for server %s: %w", serverID, err)
	}
	return nil
}

func (s *Store) GetLogChannel(ctx context.Context, serverID string) (*model.LogChannel, error) {
	return firstByServer[model.LogChannel](ctx, s.db, serverID)
}

func (s *Store) SetLogChannel(ctx context.Context, serverID, channelID string) error {
	err := upsertByServer(ctx, s.db, serverID,
		model.LogChannel{ServerID: serverID},
		model.LogChannel{LogChannelID: channelID})
	if err != nil {
		return fmt.Errorf("failed to set log channel for server %s: %w", serverID, err)
	}
	return nil
}

func (s *Store) DeleteLogChannel(ctx context.Context, serverID string) error {
	if err := deleteByServer[model.LogChannel](ctx, s.db, serverID); err != nil {
		return fmt.Errorf("failed to delete log channel for server %s: %w", serverID, err)
	}
	return nil
}

func (s *Store) GetDynamicVoice(ctx context.Context, serverID string) (*model.DynamicVoiceChannel, error) {
	return firstByServer[model.DynamicVoiceChannel](ctx, s.db, serverID)
}

func (s *Store) SetDynamicVoice(ctx context.Context, serverID, baseChannelID string) error {
	err := upsertByServer(ctx, s.db, serverID,
		model.DynamicVoiceChannel{ServerID: serverID},
		model.DynamicVoiceChannel{BaseChannelID: baseChannelID})
	if err != nil {
		return fmt.Errorf("failed to set dynamic voice channel for server %s: %w", serverID, err)
	}
	return nil
}

func (s *Store) DeleteDynamicVoice(ctx context.Context, serverID string) error {
	if err := deleteByServer[model.DynamicVoiceChannel](ctx, s.db, serverID); err != nil {
		return fmt.Errorf("failed to delete dynamic voice channel for server %s: %w", serverID, err)
	}
	return nil
}

func (s *Store) GetTrackingMember(ctx context.Context, serverID string) (*model.TrackingMemberConfig, error) {
	return firstByServer[model.TrackingMemberConfig](ctx, s.db, serverID)
}

func (s *Store) SetTrackingMember(ctx context.Context, serverID, channelID string) error {
	err := upsertByServer(ctx, s.db, serverID,
		model.TrackingMemberConfig{ServerID: serverID},
		model.TrackingMemberConfig{TrackingChannelID: channelID})
	if err != nil {
		return fmt.Errorf("failed to set tracking channel for server %s: %w", serverID, err)
	}
	return nil
}

func (s *Store) DeleteTrackingMember(ctx context.Context, serverID string) error {
	if err := deleteByServer[model.TrackingMemberConfig](ctx, s.db, serverID); err != nil {
		return fmt.Errorf("failed to delete tracking channel for server %s: %w", serverID, err)
	}
	return nil
}

// ChannelView exposes one single-channel config table through a uniform
// Get/Set/Delete surface.
type ChannelView[T any] struct {
	get func(ctx context.Context, serverID string) (*T, error)
	set func(ctx context.Context, serverID, channelID string) error
	del func(ctx context.Context, serverID string) error
}

func (v ChannelView[T]) Get(ctx context.Context, serverID string) (*T, error) {
	return v.get(ctx, serverID)
}

func (v ChannelView[T]) Set(ctx context.Context, serverID, channelID string) error {
	return v.set(ctx, serverID, channelID)
}

func (v ChannelView[T]) Delete(ctx context.Context, serverID string) error {
	return v.del(ctx, serverID)
}

func (s *Store) LogChannels() ChannelView[model.LogChannel] {
	return ChannelView[model.LogChannel]{s.GetLogChannel, s.SetLogChannel, s.DeleteLogChannel}
}

func (s *Store) DynamicVoiceChannels() ChannelView[model.DynamicVoiceChannel] {
	return ChannelView[model.DynamicVoiceChannel]{s.GetDynamicVoice, s.SetDynamicVoice, s.DeleteDynamicVoice}
}

func (s *Store) TrackingMembers() ChannelView[model.TrackingMemberConfig] {
	return ChannelView[model.TrackingMemberConfig]{s.GetTrackingMember, s.SetTrackingMember, s.DeleteTrackingMember}
}
