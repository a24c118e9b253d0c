package discord

import (
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	BotTokenFormat    = "Bot %s"
	BearerTokenFormat = "Bearer %s"

	// maxUserGuilds is the page size Discord allows for /users/@me/guilds.
	maxUserGuilds = 200
)

// Ensure the REST surfaces are implemented by discordgo.Session
var (
	_ BotSession  = (*discordgo.Session)(nil)
	_ UserSession = (*discordgo.Session)(nil)
)

// BotSession is the part of the REST API called with the bot credential.
type BotSession interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildEmojis(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

// UserSession is the part of the REST API called with a user's OAuth token.
type UserSession interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	UserGuilds(limit int, beforeID, afterID string, withCounts bool, options ...discordgo.RequestOption) ([]*discordgo.UserGuild, error)
}

// NewSession builds a REST-only session whose outbound calls are bounded by
// timeout. token must already carry its "Bot " or "Bearer " prefix.
func NewSession(token string, timeout time.Duration) (*discordgo.Session, error) {
	s, err := discordgo.New(token)
	if err != nil {
		return nil, err
	}
	s.Client = &http.Client{Timeout: timeout}
	return s, nil
}
