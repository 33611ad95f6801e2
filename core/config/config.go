package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"herald.app/relay/core/db"
)

// DefaultVerifiedRoleID is used when ROLE_VERIFIED is not set.
const DefaultVerifiedRoleID = "1303289466575917108"

// DefaultEmbedColor is Discord blurple.
const DefaultEmbedColor = 0x5865F2

type Config struct {
	OTel    OTelConfig
	Discord DiscordConfig
	Roles   RoleSet
	Verify  VerifyConfig
	Webhook WebhookConfig
	Redis   RedisConfig
	Env     string
	Port    string
	DB      db.Config
}

type DiscordConfig struct {
	Token string
	// AppID defaults to the session user id when empty.
	AppID string
	// GuildID scopes slash command registration; empty registers globally.
	GuildID          string
	EmbedColor       int
	ReactionInterval time.Duration
}

type VerifyConfig struct {
	RoleID      string
	StaffRoleID string
}

type WebhookConfig struct {
	GitHubSecret string
	GitLabToken  string
	ChannelID    string
	MaxBodyBytes int64
}

type RedisConfig struct {
	URL         string
	DeliveryTTL time.Duration
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeCLI    ServiceType = "cli"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the bot process
//   - .env.cli for relayctl
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("RELAY_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	embedColor, err := parseColor(getEnv("EMBED_COLOR", ""))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:  getEnv("RELAY_ENV", "development"),
		Port: firstEnv([]string{"WEBHOOK_PORT", "PORT"}, "5000"),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "herald"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Discord: DiscordConfig{
			Token:            getEnv("TOKEN", ""),
			AppID:            getEnv("DISCORD_APP_ID", ""),
			GuildID:          getEnv("DISCORD_GUILD_ID", ""),
			EmbedColor:       embedColor,
			ReactionInterval: getEnvDuration("REACTION_INTERVAL", 300*time.Millisecond),
		},
		Roles: LoadRoles(os.Environ()),
		Verify: VerifyConfig{
			RoleID:      nonEmpty(getEnv("ROLE_VERIFIED", ""), DefaultVerifiedRoleID),
			StaffRoleID: getEnv("STAFF_ROLE_ID", ""),
		},
		Webhook: WebhookConfig{
			GitHubSecret: firstEnv([]string{"GITHUB_WEBHOOK_SECRET", "GITHUB_SECRET"}, ""),
			GitLabToken:  getEnv("GITLAB_WEBHOOK_TOKEN", ""),
			ChannelID:    firstEnv([]string{"GITHUB_CHANNEL_ID", "DISCORD_CHANNEL_ID"}, ""),
			MaxBodyBytes: int64(getEnvInt("WEBHOOK_MAX_BODY_BYTES", 5<<20)),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			DeliveryTTL: getEnvDuration("WEBHOOK_DELIVERY_TTL", 24*time.Hour),
		},
	}

	if err := cfg.Validate(serviceType); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports configuration that would make the given service unusable.
// An enabled webhook relay without a signing secret is refused rather than
// accepting unsigned deliveries.
func (c Config) Validate(serviceType ServiceType) error {
	if c.Discord.Token == "" {
		return fmt.Errorf("TOKEN is required")
	}

	if serviceType != ServiceTypeServer {
		return nil
	}

	if c.Webhook.Enabled() && c.Webhook.GitHubSecret == "" {
		return fmt.Errorf("GITHUB_WEBHOOK_SECRET (or GITHUB_SECRET) is required when GITHUB_CHANNEL_ID is set")
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// Enabled reports whether push relaying has somewhere to go.
func (c WebhookConfig) Enabled() bool {
	return c.ChannelID != ""
}

func (c WebhookConfig) GitLabEnabled() bool {
	return c.Enabled() && c.GitLabToken != ""
}

func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

func parseColor(s string) (int, error) {
	if s == "" {
		return DefaultEmbedColor, nil
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	v, err := strconv.ParseInt(trimmed, 16, 32)
	if err != nil || v < 0 || v > 0xFFFFFF {
		return 0, fmt.Errorf("EMBED_COLOR %q is not a hex color", s)
	}
	return int(v), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys []string, fallback string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return fallback
}

func nonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
