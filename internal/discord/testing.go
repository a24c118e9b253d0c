package discord

import (
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

const (
	SessionGuildChannelsMethod = "GuildChannels"
	SessionGuildRolesMethod    = "GuildRoles"
	SessionGuildEmojisMethod   = "GuildEmojis"
	SessionGuildMemberMethod   = "GuildMember"
	SessionUserMethod          = "User"
	SessionUserGuildsMethod    = "UserGuilds"
)

// Ensure MockSession implements both session surfaces
var (
	_ BotSession  = (*MockSession)(nil)
	_ UserSession = (*MockSession)(nil)
)

// MockSession records calls without request options.
type MockSession struct {
	mock.Mock
}

func (m *MockSession) GuildChannels(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	args := m.Called(guildID)
	if v := args.Get(0); v != nil {
		return v.([]*discordgo.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSession) GuildRoles(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	args := m.Called(guildID)
	if v := args.Get(0); v != nil {
		return v.([]*discordgo.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSession) GuildEmojis(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Emoji, error) {
	args := m.Called(guildID)
	if v := args.Get(0); v != nil {
		return v.([]*discordgo.Emoji), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSession) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	args := m.Called(guildID, userID)
	if v := args.Get(0); v != nil {
		return v.(*discordgo.Member), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSession) User(userID string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	args := m.Called(userID)
	if v := args.Get(0); v != nil {
		return v.(*discordgo.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSession) UserGuilds(limit int, beforeID, afterID string, withCounts bool, _ ...discordgo.RequestOption) ([]*discordgo.UserGuild, error) {
	args := m.Called(limit, beforeID, afterID, withCounts)
	if v := args.Get(0); v != nil {
		return v.([]*discordgo.UserGuild), args.Error(1)
	}
	return nil, args.Error(1)
}

// RESTError builds the error discordgo returns for a non-2xx status.
func RESTError(status int) *discordgo.RESTError {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: status}}
}
