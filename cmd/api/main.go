package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"guild-dashboard/internal/api"
	"guild-dashboard/internal/api/handler"
	"guild-dashboard/internal/auth"
	"guild-dashboard/internal/config"
	"guild-dashboard/internal/database"
	"guild-dashboard/internal/discord"
	"guild-dashboard/internal/stats"
	"guild-dashboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg)

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(cfg, os.Args[2:]); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
}

func handleMigrationCommand(cfg *config.Config, args []string) error {
	if cfg.DB.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations are only managed for %s, sqlite schemas are created on startup", config.DriverPostgres)
	}
	if len(args) == 0 {
		return errors.New("usage: api migrate [up|down] [steps]")
	}

	logger := log.WithField("component", "migrate")
	switch args[0] {
	case "up":
		return database.MigrateUp(cfg.DB.PostgresDSN(), logger)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			steps = n
		}
		return database.MigrateDown(cfg.DB.PostgresDSN(), steps)
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := log.StandardLogger()

	db, err := database.Open(cfg.DB, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db, cfg.DB, logger); err != nil {
		return err
	}

	bot, err := discord.NewSession(fmt.Sprintf(discord.BotTokenFormat, cfg.DiscordBotToken), cfg.DiscordHTTPTimeout)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	client := discord.NewClient(bot, cfg.DiscordClientID, discord.NewBearerFactory(cfg.DiscordHTTPTimeout))

	sessions, err := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	st := store.New(db)
	stats.NewCollector(st, registry, logger.WithField("component", "stats")).Start(ctx, stats.DefaultInterval)

	router := api.NewRouter(api.Deps{
		Store:    st,
		Guilds:   client,
		Users:    client,
		Sessions: sessions,
		Auth: &handler.Auth{
			OAuth:        discord.NewOAuth(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.OAuthRedirectURL, cfg.DiscordHTTPTimeout),
			States:       auth.NewStateStore(auth.DefaultStateTTL),
			Sessions:     sessions,
			Users:        client,
			Cookie:       handler.CookieSettingsFor(cfg.IsProduction()),
			DashboardURL: cfg.DashboardURL,
			Log:          logger,
		},
		DB:         pinger(db),
		CORSOrigin: cfg.CORSOrigin,
		Log:        logger,
		Registry:   registry,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": srv.Addr, "tls": cfg.TLSEnabled(), "env": cfg.AppEnv}).Info("Server listening")
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, failed := <-errCh:
		if failed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Received shutdown signal, shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func pinger(db *gorm.DB) handler.PingFunc {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}
