package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"guild-dashboard/internal/api/handler"
	"guild-dashboard/internal/auth"
	"guild-dashboard/internal/config"
	"guild-dashboard/internal/database"
	"guild-dashboard/internal/discord"
	"guild-dashboard/internal/store"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeOAuth struct {
	token string
	err   error
}

func (f fakeOAuth) AuthCodeURL(state string) string {
	return "https://discord.test/oauth2/authorize?state=" + state
}

func (f fakeOAuth) Exchange(context.Context, string) (string, error) {
	return f.token, f.err
}

type RouterSuite struct {
	suite.Suite

	router   *gin.Engine
	store    *store.Store
	bot      *discord.MockSession
	user     *discord.MockSession
	sessions *auth.Sessions
	states   *auth.StateStore
	oauth    *fakeOAuth
	cookie   string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	db, err := database.OpenSQLite(filepath.Join(s.T().TempDir(), "api.db"), log)
	s.Require().NoError(err)
	s.T().Cleanup(func() { database.Close(db) })
	s.Require().NoError(database.Migrate(db, config.DBConfig{Driver: config.DriverSQLite}, log))

	s.store = store.New(db)
	s.bot = new(discord.MockSession)
	s.user = new(discord.MockSession)
	client := discord.NewClient(s.bot, "bot-id", func(string) (discord.UserSession, error) { return s.user, nil })

	s.sessions, err = auth.NewSessions("test-secret", time.Hour)
	s.Require().NoError(err)
	s.states = auth.NewStateStore(time.Minute)
	s.oauth = &fakeOAuth{token: "discord-at"}

	s.router = NewRouter(Deps{
		Store:    s.store,
		Guilds:   client,
		Users:    client,
		Sessions: s.sessions,
		Auth: &handler.Auth{
			OAuth:        s.oauth,
			States:       s.states,
			Sessions:     s.sessions,
			Users:        client,
			Cookie:       handler.CookieSettingsFor(false),
			DashboardURL: "https://dash.test/dashboard",
			Log:          log,
		},
		DB:         handler.PingFunc(func(ctx context.Context) error { return database.Ping(ctx, db) }),
		CORSOrigin: "https://dash.test",
		Log:        log,
		Registry:   prometheus.NewRegistry(),
	})

	s.cookie, err = s.sessions.Issue(auth.Identity{ID: "u1", Username: "neo", AccessToken: "discord-at"})
	s.Require().NoError(err)
}

func (s *RouterSuite) do(method, path, body string) *httptest.ResponseRecorder {
	return s.doWithCookie(method, path, body, s.cookie)
}

func (s *RouterSuite) doWithCookie(method, path, body, cookie string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *RouterSuite) createServer(id string) {
	w := s.do(http.MethodPost, "/server", `{"serverId":"`+id+`","serverName":"Guild `+id+`"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *RouterSuite) TestProtectedRoutesRequireSession() {
	paths := []string{
		"/api/1/channels",
		"/api/1/getWelcomeLeave",
		"/api/1/reaction-roles",
		"/api/1/preview-config",
		"/server/1",
		"/user/guilds",
		"/auth/status",
		"/auth/user-avatar",
		"/bot/1/checkBot",
	}
	for _, p := range paths {
		w := s.doWithCookie(http.MethodGet, p, "", "")
		s.Equal(http.StatusUnauthorized, w.Code, p)

		w = s.doWithCookie(http.MethodGet, p, "", "tampered.token.value")
		s.Equal(http.StatusForbidden, w.Code, p)
	}
}

func (s *RouterSuite) TestExpiredSessionIsForbidden() {
	short, err := auth.NewSessions("test-secret", -time.Minute)
	s.Require().NoError(err)
	expired, err := short.Issue(auth.Identity{ID: "u1", Username: "neo", AccessToken: "at"})
	s.Require().NoError(err)

	w := s.doWithCookie(http.MethodGet, "/auth/status", "", expired)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RouterSuite) TestAuthStatus() {
	w := s.do(http.MethodGet, "/auth/status", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true,"isLoggedIn":true,"user":{"id":"u1","username":"neo"}}`, w.Body.String())
}

func (s *RouterSuite) TestWelcomeLeavePartialUpdate() {
	s.createServer("1")

	w := s.do(http.MethodGet, "/api/1/getWelcomeLeave", "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/1/updateWelcomeLeave", `{"welcomeChannel":"111"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/1/getWelcomeLeave", "")
	s.Require().Equal(http.StatusOK, w.Code)
	cfg := decode(s.T(), w)["config"].(map[string]any)
	s.Equal("111", cfg["welcome_channel_id"])
	s.Nil(cfg["leave_channel_id"])

	w = s.do(http.MethodPost, "/api/1/updateWelcomeLeave", `{"leaveChannelId":"222"}`)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/1/getWelcomeLeave", "")
	cfg = decode(s.T(), w)["config"].(map[string]any)
	s.Equal("111", cfg["welcome_channel_id"])
	s.Equal("222", cfg["leave_channel_id"])

	for _, body := range []string{"", `{}`, `{"welcomeChannel":""}`} {
		w = s.do(http.MethodPost, "/api/1/updateWelcomeLeave", body)
		s.Equal(http.StatusBadRequest, w.Code, body)
	}

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/1/deleteWelcomeLeave", "").Code)
	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/1/deleteWelcomeLeave", "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/1/getWelcomeLeave", "").Code)
}

func (s *RouterSuite) TestChannelConfigs() {
	s.createServer("1")

	tests := []struct {
		path  string
		field string
		key   string
	}{
		{"/api/1/log-channel", "logChannelId", "log_channel_id"},
		{"/api/1/dynamic-voice-channels", "baseChannelId", "base_channel_id"},
		{"/api/1/trackingMembers", "trackingChannelId", "tracking_channel_id"},
	}
	for _, tt := range tests {
		s.Run(tt.path, func() {
			s.Equal(http.StatusNotFound, s.do(http.MethodGet, tt.path, "").Code)
			s.Equal(http.StatusBadRequest, s.do(http.MethodPost, tt.path, `{}`).Code)

			s.Equal(http.StatusOK, s.do(http.MethodPost, tt.path, `{"`+tt.field+`":"10"}`).Code)
			s.Equal(http.StatusOK, s.do(http.MethodPost, tt.path, `{"`+tt.field+`":"11"}`).Code)

			w := s.do(http.MethodGet, tt.path, "")
			s.Require().Equal(http.StatusOK, w.Code)
			cfg := decode(s.T(), w)["config"].(map[string]any)
			s.Equal("11", cfg[tt.key])

			s.Equal(http.StatusOK, s.do(http.MethodDelete, tt.path, "").Code)
			s.Equal(http.StatusNotFound, s.do(http.MethodGet, tt.path, "").Code)
		})
	}
}

func (s *RouterSuite) TestDynamicVoiceDeleteAlias() {
	s.createServer("1")
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/1/dynamic-voice-channels", `{"baseChannelId":"5"}`).Code)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/1/channels", "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/1/dynamic-voice-channels", "").Code)
}

func (s *RouterSuite) TestWritesForUnknownServer() {
	w := s.do(http.MethodPost, "/api/404/log-channel", `{"logChannelId":"1"}`)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Server not found", decode(s.T(), w)["message"])

	w = s.do(http.MethodPost, "/api/404/reaction-roles", `{"channelId":"c","messageId":"m","emoji":"e","roleId":"r"}`)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestReactionRoles() {
	s.createServer("1")

	w := s.do(http.MethodGet, "/api/1/reaction-roles", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true,"data":[]}`, w.Body.String())

	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/1/reaction-roles", `{"channelId":"c"}`).Code)

	add := `{"channelId":"c1","messageId":"m1","emoji":"👍","roleId":"r1"}`
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/1/reaction-roles", add).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/1/reaction-roles", add).Code)
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/1/reaction-roles",
		`{"channelId":"c1","messageId":"m1","emoji":"🔥","roleId":"r2"}`).Code)

	w = s.do(http.MethodPut, "/api/1/reaction-roles", `{"channelId":"c2","messageId":"m1","emoji":"🔥","roleId":"r3"}`)
	s.Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodPut, "/api/1/reaction-roles", `{"channelId":"c2","messageId":"nope","emoji":"🔥","roleId":"r3"}`)
	s.Equal(http.StatusNotFound, w.Code)

	s.Equal(http.StatusBadRequest, s.do(http.MethodDelete, "/api/1/reaction-roles", `{"messageId":"m1"}`).Code)
	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/1/reaction-roles", `{"messageId":"m1","emoji":"👍"}`).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/1/reaction-roles", `{"messageId":"m1","emoji":"👍"}`).Code)

	w = s.do(http.MethodGet, "/api/1/reaction-roles", "")
	data := decode(s.T(), w)["data"].([]any)
	s.Require().Len(data, 1)
	row := data[0].(map[string]any)
	s.Equal("🔥", row["emoji"])
	s.Equal("c2", row["channel_id"])
	s.Equal("r3", row["role_id"])
}

func (s *RouterSuite) TestServerLifecycle() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/server", `{"serverId":"1"}`).Code)

	s.createServer("1")
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/server", `{"serverId":"1","serverName":"x"}`).Code)

	w := s.do(http.MethodGet, "/server/1", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Guild 1", decode(s.T(), w)["data"].(map[string]any)["server_name"])

	w = s.do(http.MethodPost, "/server/ensure", `{"serverId":"1","serverName":"renamed"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Guild 1", decode(s.T(), w)["data"].(map[string]any)["server_name"])

	w = s.do(http.MethodPost, "/server/ensure", `{"serverId":"2","serverName":"two"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("two", decode(s.T(), w)["data"].(map[string]any)["server_name"])

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/1/log-channel", `{"logChannelId":"9"}`).Code)
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/1/reaction-roles",
		`{"channelId":"c","messageId":"m","emoji":"e","roleId":"r"}`).Code)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/server/1", "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/server/1", "").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/1/log-channel", "").Code)
	s.JSONEq(`{"success":true,"data":[]}`, s.do(http.MethodGet, "/api/1/reaction-roles", "").Body.String())
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/server/1", "").Code)
}

func (s *RouterSuite) TestGuildPassThrough() {
	s.bot.On(discord.SessionGuildChannelsMethod, "1").Return([]*discordgo.Channel{{ID: "c1", Name: "general"}}, nil)
	s.bot.On(discord.SessionGuildRolesMethod, "1").Return([]*discordgo.Role{{ID: "r1", Name: "mod"}}, nil)
	s.bot.On(discord.SessionGuildEmojisMethod, "1").Return(nil, errors.New("upstream down"))
	s.bot.On(discord.SessionGuildMemberMethod, "1", "bot-id").Return(nil, discord.RESTError(http.StatusNotFound))
	s.bot.On(discord.SessionUserMethod, "@me").Return(&discordgo.User{ID: "b", Avatar: "hash"}, nil)

	w := s.do(http.MethodGet, "/api/1/channels", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("general", decode(s.T(), w)["channels"].([]any)[0].(map[string]any)["name"])

	w = s.do(http.MethodGet, "/api/1/roles", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("mod", decode(s.T(), w)["data"].([]any)[0].(map[string]any)["name"])

	w = s.do(http.MethodGet, "/api/1/emojis", "")
	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "upstream down")

	w = s.do(http.MethodGet, "/bot/1/checkBot", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true,"isBotInServer":false}`, w.Body.String())

	w = s.doWithCookie(http.MethodGet, "/bot/bot-avatar", "", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(decode(s.T(), w)["avatarUrl"], "avatars/b/hash")
}

func (s *RouterSuite) TestUserGuilds() {
	s.user.On(discord.SessionUserGuildsMethod, 200, "", "", false).Return([]*discordgo.UserGuild{
		{ID: "1", Name: "mine", Permissions: discordgo.PermissionAdministrator},
		{ID: "2", Name: "theirs", Permissions: 0},
	}, nil)

	w := s.do(http.MethodGet, "/user/guilds", "")
	s.Require().Equal(http.StatusOK, w.Code)
	data := decode(s.T(), w)["data"].([]any)
	s.Require().Len(data, 1)
	s.Equal("mine", data[0].(map[string]any)["name"])
}

func (s *RouterSuite) TestPreviewConfig() {
	s.createServer("1")
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/1/preview-config", "").Code)

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/1/updateWelcomeLeave", `{"welcomeChannel":"c1"}`).Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/1/log-channel", `{"logChannelId":"gone"}`).Code)
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/1/reaction-roles",
		`{"channelId":"c1","messageId":"m1","emoji":"e1","roleId":"r1"}`).Code)

	s.bot.On(discord.SessionGuildChannelsMethod, "1").Return([]*discordgo.Channel{{ID: "c1", Name: "welcome"}}, nil)
	s.bot.On(discord.SessionGuildRolesMethod, "1").Return([]*discordgo.Role{{ID: "r1", Name: "gamer"}}, nil)
	s.bot.On(discord.SessionGuildEmojisMethod, "1").Return([]*discordgo.Emoji{{ID: "e1", Name: "pog"}}, nil)

	w := s.do(http.MethodGet, "/api/1/preview-config", "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.JSONEq(`{"success":true,"data":{
		"welcomeChannel":"welcome",
		"leaveChannel":"N/A",
		"logChannel":"N/A",
		"baseVoiceChannel":"N/A",
		"trackingChannel":"N/A",
		"reactionRoles":[{"channel":"welcome","messageId":"m1","emoji":"pog","role":"gamer"}]
	}}`, w.Body.String())
}

func (s *RouterSuite) TestLoginAndCallback() {
	w := s.doWithCookie(http.MethodGet, "/auth/discord", "", "")
	s.Require().Equal(http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	s.Require().NoError(err)
	state := loc.Query().Get("state")
	s.NotEmpty(state)

	s.Equal(http.StatusBadRequest, s.doWithCookie(http.MethodGet, "/auth/callback?state="+state, "", "").Code)
	s.Equal(http.StatusBadRequest, s.doWithCookie(http.MethodGet, "/auth/callback?code=abc&state=forged", "", "").Code)

	s.user.On(discord.SessionUserMethod, "@me").Return(&discordgo.User{ID: "42", Username: "trinity"}, nil)

	w = s.doWithCookie(http.MethodGet, "/auth/callback?code=abc&state="+state, "", "")
	s.Require().Equal(http.StatusFound, w.Code, w.Body.String())
	s.Equal("https://dash.test/dashboard", w.Header().Get("Location"))

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.CookieName {
			session = ck
		}
	}
	s.Require().NotNil(session)
	s.True(session.HttpOnly)
	s.Equal("/", session.Path)
	s.Equal(http.SameSiteLaxMode, session.SameSite)
	s.Equal(int(time.Hour.Seconds()), session.MaxAge)

	id, err := s.sessions.Verify(session.Value)
	s.Require().NoError(err)
	s.Equal(&auth.Identity{ID: "42", Username: "trinity", AccessToken: "discord-at"}, id)

	w = s.doWithCookie(http.MethodGet, "/auth/callback?code=abc&state="+state, "", "")
	s.Equal(http.StatusBadRequest, w.Code, "state is single use")
}

func (s *RouterSuite) TestCallbackExchangeFailure() {
	state, err := s.states.Issue()
	s.Require().NoError(err)
	s.oauth.err = errors.New("invalid_grant")

	w := s.doWithCookie(http.MethodGet, "/auth/callback?code=abc&state="+state, "", "")
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Authentication failed", decode(s.T(), w)["message"])
}

func (s *RouterSuite) TestLogoutClearsCookie() {
	w := s.do(http.MethodPost, "/auth/logout", "")
	s.Require().Equal(http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(auth.CookieName, cookies[0].Name)
	s.Empty(cookies[0].Value)
	s.Less(cookies[0].MaxAge, 0)
}

func (s *RouterSuite) TestUserAvatar() {
	s.user.On(discord.SessionUserMethod, "@me").Return(&discordgo.User{ID: "u1", Avatar: "a_anim"}, nil)

	w := s.do(http.MethodGet, "/auth/user-avatar", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(decode(s.T(), w)["avatarUrl"], "avatars/u1/a_anim")
}

func (s *RouterSuite) TestHealthAndMetrics() {
	s.Equal(http.StatusOK, s.doWithCookie(http.MethodGet, "/healthz", "", "").Code)

	s.doWithCookie(http.MethodGet, "/bot/1/checkBot", "", "")
	w := s.doWithCookie(http.MethodGet, "/metrics", "", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `route="/bot/:serverId/checkBot"`)
}

func TestCookieSettingsFor(t *testing.T) {
	prod := handler.CookieSettingsFor(true)
	assert.True(t, prod.Secure)
	assert.Equal(t, http.SameSiteNoneMode, prod.SameSite)

	dev := handler.CookieSettingsFor(false)
	assert.False(t, dev.Secure)
	assert.Equal(t, http.SameSiteLaxMode, dev.SameSite)
}
