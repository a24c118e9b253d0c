package api

import (
	"guild-dashboard/internal/api/handler"
	"guild-dashboard/internal/api/middleware"
	"guild-dashboard/internal/metrics"
	"guild-dashboard/internal/model"
	"guild-dashboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Deps is everything the router hands to handlers.
type Deps struct {
	Store    *store.Store
	Guilds   handler.GuildDirectory
	Users    handler.UserDirectory
	Sessions middleware.SessionVerifier
	Auth     *handler.Auth
	DB       handler.Pinger

	CORSOrigin string
	Log        logrus.FieldLogger

	// Registry receives the HTTP metrics and backs /metrics.
	Registry *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(d.Log),
		middleware.Recovery(d.Log),
		metrics.NewHTTPMetrics(d.Registry).Middleware(),
		middleware.CORSMiddleware(d.CORSOrigin),
	)

	r.GET("/healthz", handler.Health(d.DB, d.Log))
	r.GET("/metrics", metrics.Handler(d.Registry))

	requireSession := middleware.AuthMiddleware(d.Sessions)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/discord", d.Auth.Login())
		authGroup.GET("/callback", d.Auth.Callback())
		authGroup.POST("/logout", d.Auth.Logout())
		authGroup.GET("/status", requireSession, d.Auth.Status())
		authGroup.GET("/user-avatar", requireSession, d.Auth.UserAvatar())
	}

	bot := r.Group("/bot")
	{
		bot.GET("/bot-avatar", handler.BotAvatar(d.Guilds, d.Log))
		bot.GET("/:serverId/checkBot", requireSession, handler.CheckBot(d.Guilds, d.Log))
	}

	r.GET("/user/guilds", requireSession, handler.UserGuilds(d.Users, d.Log))

	logChannel := handler.ChannelConfig[model.LogChannel]{
		Store: d.Store.LogChannels(), Field: "logChannelId", Name: "Log channel", Log: d.Log,
	}
	dynamicVoice := handler.ChannelConfig[model.DynamicVoiceChannel]{
		Store: d.Store.DynamicVoiceChannels(), Field: "baseChannelId", Name: "Dynamic voice channel", Log: d.Log,
	}
	tracking := handler.ChannelConfig[model.TrackingMemberConfig]{
		Store: d.Store.TrackingMembers(), Field: "trackingChannelId", Name: "Member tracking", Log: d.Log,
	}

	guild := r.Group("/api/:serverId", requireSession)
	{
		guild.GET("/channels", handler.ListChannels(d.Guilds, d.Log))
		guild.GET("/roles", handler.ListRoles(d.Guilds, d.Log))
		guild.GET("/emojis", handler.ListEmojis(d.Guilds, d.Log))

		guild.GET("/getWelcomeLeave", handler.GetWelcomeLeave(d.Store, d.Log))
		guild.POST("/updateWelcomeLeave", handler.UpdateWelcomeLeave(d.Store, d.Log))
		guild.DELETE("/deleteWelcomeLeave", handler.DeleteWelcomeLeave(d.Store, d.Log))

		guild.GET("/log-channel", logChannel.Get())
		guild.POST("/log-channel", logChannel.Set())
		guild.DELETE("/log-channel", logChannel.Delete())

		guild.GET("/dynamic-voice-channels", dynamicVoice.Get())
		guild.POST("/dynamic-voice-channels", dynamicVoice.Set())
		guild.DELETE("/dynamic-voice-channels", dynamicVoice.Delete())
		// Older dashboards delete the dynamic voice config through /channels.
		guild.DELETE("/channels", dynamicVoice.Delete())

		guild.GET("/trackingMembers", tracking.Get())
		guild.POST("/trackingMembers", tracking.Set())
		guild.DELETE("/trackingMembers", tracking.Delete())

		guild.GET("/reaction-roles", handler.ListReactionRoles(d.Store, d.Log))
		guild.POST("/reaction-roles", handler.AddReactionRole(d.Store, d.Log))
		guild.PUT("/reaction-roles", handler.UpdateReactionRole(d.Store, d.Log))
		guild.DELETE("/reaction-roles", handler.DeleteReactionRole(d.Store, d.Log))

		guild.GET("/preview-config", handler.PreviewConfig(d.Store, d.Guilds, d.Log))
	}

	servers := r.Group("/server", requireSession)
	{
		servers.POST("", handler.CreateServer(d.Store, d.Log))
		servers.POST("/ensure", handler.EnsureServer(d.Store, d.Log))
		servers.GET("/:serverId", handler.GetServer(d.Store, d.Log))
		servers.DELETE("/:serverId", handler.DeleteServer(d.Store, d.Log))
	}

	return r
}
