package handler

import (
	"context"
	"net/http"

	"guild-dashboard/internal/api/middleware"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GuildDirectory answers questions about a guild using the bot credential.
type GuildDirectory interface {
	Channels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)
	Roles(ctx context.Context, guildID string) ([]*discordgo.Role, error)
	Emojis(ctx context.Context, guildID string) ([]*discordgo.Emoji, error)
	BotInGuild(ctx context.Context, guildID string) (bool, error)
	BotAvatarURL(ctx context.Context) (string, error)
}

// UserDirectory answers questions about a user using their access token.
type UserDirectory interface {
	CurrentUser(ctx context.Context, accessToken string) (*discordgo.User, error)
	AdminGuilds(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error)
}

func ListChannels(d GuildDirectory, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		channels, err := d.Channels(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			internalError(c, log, "Failed to fetch channels", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"channels": channels})
	}
}

func ListRoles(d GuildDirectory, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := d.Roles(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			internalError(c, log, "Failed to fetch roles", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"data": roles})
	}
}

func ListEmojis(d GuildDirectory, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		emojis, err := d.Emojis(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			internalError(c, log, "Failed to fetch emojis", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"data": emojis})
	}
}

func BotAvatar(d GuildDirectory, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		avatar, err := d.BotAvatarURL(c.Request.Context())
		if err != nil {
			internalError(c, log, "Failed to fetch bot avatar", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"avatarUrl": avatar})
	}
}

func CheckBot(d GuildDirectory, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		present, err := d.BotInGuild(c.Request.Context(), c.Param("serverId"))
		if err != nil {
			internalError(c, log, "Failed to check bot membership", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"isBotInServer": present})
	}
}

// UserGuilds lists the guilds the caller administers.
func UserGuilds(d UserDirectory, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, found := middleware.Identity(c)
		if !found {
			fail(c, http.StatusUnauthorized, "Access token required")
			return
		}

		guilds, err := d.AdminGuilds(c.Request.Context(), id.AccessToken)
		if err != nil {
			internalError(c, log, "Failed to fetch guilds", err)
			return
		}
		succeed(c, http.StatusOK, gin.H{"data": guilds})
	}
}
