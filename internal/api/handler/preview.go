package handler

import (
	"context"
	"net/http"

	"guild-dashboard/internal/store"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const unresolved = "N/A"

type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, serverID string) (*store.Snapshot, error)
}

type reactionRolePreview struct {
	Channel   string `json:"channel"`
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
	Role      string `json:"role"`
}

type configPreview struct {
	WelcomeChannel   string                `json:"welcomeChannel"`
	LeaveChannel     string                `json:"leaveChannel"`
	LogChannel       string                `json:"logChannel"`
	BaseVoiceChannel string                `json:"baseVoiceChannel"`
	TrackingChannel  string                `json:"trackingChannel"`
	ReactionRoles    []reactionRolePreview `json:"reactionRoles"`
}

// names maps Discord IDs to display names.
type names map[string]string

func (n names) resolve(id *string) string {
	if id == nil {
		return unresolved
	}
	if name, found := n[*id]; found {
		return name
	}
	return unresolved
}

// PreviewConfig renders every stored config of a server with channel, role
// and emoji IDs replaced by their current names.
func PreviewConfig(s SnapshotLoader, d GuildDirectory, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		serverID := c.Param("serverId")
		snap, err := s.LoadSnapshot(c.Request.Context(), serverID)
		if err != nil {
			internalError(c, log, "Failed to load preview configuration", err)
			return
		}
		if snap.Empty() {
			fail(c, http.StatusNotFound, "Configuration not found")
			return
		}

		var (
			channels []*discordgo.Channel
			roles    []*discordgo.Role
			emojis   []*discordgo.Emoji
		)
		g, ctx := errgroup.WithContext(c.Request.Context())
		g.Go(func() (err error) {
			channels, err = d.Channels(ctx, serverID)
			return err
		})
		g.Go(func() (err error) {
			roles, err = d.Roles(ctx, serverID)
			return err
		})
		g.Go(func() (err error) {
			emojis, err = d.Emojis(ctx, serverID)
			return err
		})
		if err := g.Wait(); err != nil {
			internalError(c, log, "Failed to load preview configuration", err)
			return
		}

		succeed(c, http.StatusOK, gin.H{"data": buildPreview(snap, channels, roles, emojis)})
	}
}

func buildPreview(snap *store.Snapshot, channels []*discordgo.Channel, roles []*discordgo.Role, emojis []*discordgo.Emoji) configPreview {
	channelNames := names{}
	for _, ch := range channels {
		channelNames[ch.ID] = ch.Name
	}
	roleNames := names{}
	for _, r := range roles {
		roleNames[r.ID] = r.Name
	}
	emojiNames := names{}
	for _, e := range emojis {
		emojiNames[e.ID] = e.Name
	}

	p := configPreview{
		WelcomeChannel:   unresolved,
		LeaveChannel:     unresolved,
		LogChannel:       unresolved,
		BaseVoiceChannel: unresolved,
		TrackingChannel:  unresolved,
		ReactionRoles:    make([]reactionRolePreview, 0, len(snap.ReactionRoles)),
	}
	if wl := snap.WelcomeLeave; wl != nil {
		p.WelcomeChannel = channelNames.resolve(wl.WelcomeChannelID)
		p.LeaveChannel = channelNames.resolve(wl.LeaveChannelID)
	}
	if snap.LogChannel != nil {
		p.LogChannel = channelNames.resolve(&snap.LogChannel.LogChannelID)
	}
	if snap.DynamicVoice != nil {
		p.BaseVoiceChannel = channelNames.resolve(&snap.DynamicVoice.BaseChannelID)
	}
	if snap.TrackingMember != nil {
		p.TrackingChannel = channelNames.resolve(&snap.TrackingMember.TrackingChannelID)
	}

	for _, rr := range snap.ReactionRoles {
		emoji := rr.Emoji
		if name, found := emojiNames[rr.Emoji]; found {
			emoji = name
		}
		if emoji == "" {
			emoji = unresolved
		}
		p.ReactionRoles = append(p.ReactionRoles, reactionRolePreview{
			Channel:   channelNames.resolve(&rr.ChannelID),
			MessageID: rr.MessageID,
			Emoji:     emoji,
			Role:      roleNames.resolve(&rr.RoleID),
		})
	}
	return p
}
