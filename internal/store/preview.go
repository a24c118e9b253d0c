package store

import (
	"context"
	"errors"

	"guild-dashboard/internal/model"
)

// Snapshot is every stored config of one server. Absent configs are nil.
type Snapshot struct {
	WelcomeLeave   *model.WelcomeLeaveConfig
	LogChannel     *model.LogChannel
	DynamicVoice   *model.DynamicVoiceChannel
	TrackingMember *model.TrackingMemberConfig
	ReactionRoles  []model.ReactionRole
}

// Empty reports whether the server has no config of any kind.
func (s Snapshot) Empty() bool {
	return s.WelcomeLeave == nil && s.LogChannel == nil && s.DynamicVoice == nil &&
		s.TrackingMember == nil && len(s.ReactionRoles) == 0
}

func (s *Store) LoadSnapshot(ctx context.Context, serverID string) (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.WelcomeLeave, err = optional(s.GetWelcomeLeave(ctx, serverID)); err != nil {
		return nil, err
	}
	if snap.LogChannel, err = optional(s.GetLogChannel(ctx, serverID)); err != nil {
		return nil, err
	}
	if snap.DynamicVoice, err = optional(s.GetDynamicVoice(ctx, serverID)); err != nil {
		return nil, err
	}
	if snap.TrackingMember, err = optional(s.GetTrackingMember(ctx, serverID)); err != nil {
		return nil, err
	}
	if snap.ReactionRoles, err = s.ListReactionRoles(ctx, serverID); err != nil {
		return nil, err
	}
	return &snap, nil
}

func optional[T any](row *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return row, err
}
