package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds everything the API reads from the environment.
type Config struct {
	Port   int    `env:"PORT" envDefault:"3000"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	PublicURL        string `env:"API_URL"`
	DashboardURL     string `env:"DASHBOARD_URL"`
	OAuthRedirectURL string `env:"OAUTH_REDIRECT_URL"`
	CORSOrigin       string `env:"CORS_ORIGIN"`

	DiscordClientID     string        `env:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string        `env:"DISCORD_CLIENT_SECRET"`
	DiscordBotToken     string        `env:"DISCORD_BOT_TOKEN"`
	DiscordHTTPTimeout  time.Duration `env:"DISCORD_HTTP_TIMEOUT" envDefault:"10s"`

	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	DB DBConfig

	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

type DBConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	URL        string `env:"DATABASE_URL"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME" envDefault:"guild_dashboard"`
	Port       int    `env:"DB_PORT" envDefault:"5432"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"data/guild-dashboard.db"`
	MaxConns   int    `env:"DB_MAX_CONNS" envDefault:"10"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse()
}

func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.DashboardURL == "" {
		cfg.DashboardURL = cfg.PublicURL + "/dashboard"
	}
	if cfg.OAuthRedirectURL == "" {
		cfg.OAuthRedirectURL = cfg.PublicURL + "/auth/callback"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = cfg.PublicURL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"API_URL":               c.PublicURL,
		"DISCORD_CLIENT_ID":     c.DiscordClientID,
		"DISCORD_CLIENT_SECRET": c.DiscordClientSecret,
		"DISCORD_BOT_TOKEN":     c.DiscordBotToken,
		"JWT_SECRET":            c.JWTSecret,
	}
	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required env variables: [%s]", strings.Join(missing, ", "))
	}

	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DB.MaxConns)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

// IsProduction selects the cross-site cookie attributes.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// PostgresDSN prefers DATABASE_URL and falls back to the individual parts.
func (d DBConfig) PostgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}
