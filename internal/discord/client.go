package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

// UserSessionFactory opens a session authenticated as the given user.
type UserSessionFactory func(accessToken string) (UserSession, error)

// Client answers guild questions with the bot credential and user questions
// with the caller's access token.
type Client struct {
	bot      BotSession
	botID    string
	openUser UserSessionFactory
}

func NewClient(bot BotSession, botID string, openUser UserSessionFactory) *Client {
	return &Client{bot: bot, botID: botID, openUser: openUser}
}

// NewBearerFactory returns a factory producing real sessions with timeout.
func NewBearerFactory(timeout time.Duration) UserSessionFactory {
	return func(accessToken string) (UserSession, error) {
		return NewSession(fmt.Sprintf(BearerTokenFormat, accessToken), timeout)
	}
}

func (c *Client) Channels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	channels, err := c.bot.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch channels for guild %s: %w", guildID, err)
	}
	return nonNil(channels), nil
}

func (c *Client) Roles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	roles, err := c.bot.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch roles for guild %s: %w", guildID, err)
	}
	return nonNil(roles), nil
}

func (c *Client) Emojis(ctx context.Context, guildID string) ([]*discordgo.Emoji, error) {
	emojis, err := c.bot.GuildEmojis(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch emojis for guild %s: %w", guildID, err)
	}
	return nonNil(emojis), nil
}

// BotInGuild looks the bot up as a guild member. Discord answers 404 when
// it is not a member, which is reported as false rather than an error.
func (c *Client) BotInGuild(ctx context.Context, guildID string) (bool, error) {
	_, err := c.bot.GuildMember(guildID, c.botID, discordgo.WithContext(ctx))
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("check bot membership in guild %s: %w", guildID, err)
}

func (c *Client) BotAvatarURL(ctx context.Context) (string, error) {
	u, err := c.bot.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetch bot user: %w", err)
	}
	return u.AvatarURL(""), nil
}

// CurrentUser fetches the owner of accessToken.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*discordgo.User, error) {
	s, err := c.openUser(accessToken)
	if err != nil {
		return nil, fmt.Errorf("open user session: %w", err)
	}
	u, err := s.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return u, nil
}

// AdminGuilds lists the user's guilds in which they hold Administrator.
func (c *Client) AdminGuilds(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error) {
	s, err := c.openUser(accessToken)
	if err != nil {
		return nil, fmt.Errorf("open user session: %w", err)
	}
	guilds, err := s.UserGuilds(maxUserGuilds, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch user guilds: %w", err)
	}

	admin := make([]*discordgo.UserGuild, 0, len(guilds))
	for _, g := range guilds {
		if g.Permissions&discordgo.PermissionAdministrator != 0 {
			admin = append(admin, g)
		}
	}
	return admin, nil
}

// IsNotFound reports whether err is a Discord REST 404.
func IsNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
