package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type OAuthProvider struct {
	Key         string
	Secret      string
	CallbackURL string
}

func (p OAuthProvider) Enabled() bool {
	return p.Key != "" && p.Secret != ""
}

type Config struct {
	ServerPort        int
	DBPath            string
	LogLevel          string
	SessionKey        string
	SessionLifetime   time.Duration
	MigrationsPath    string
	MainAdminPassword string
	UrusetiaPassword  string
	MainAdminEmails   []string
	CORSOrigins       []string
	Discord           OAuthProvider
	Google            OAuthProvider
}

// Load reads the environment, picking up a .env file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	lifetime, err := time.ParseDuration(get("SESSION_LIFETIME", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_LIFETIME: %w", err)
	}

	cfg := &Config{
		ServerPort:        port,
		DBPath:            get("DB_PATH", "dam_aji.db"),
		LogLevel:          get("LOG_LEVEL", "info"),
		SessionKey:        get("SESSION_KEY", "dam-aji-tournament-storage"),
		SessionLifetime:   lifetime,
		MigrationsPath:    get("MIGRATIONS_PATH", "file://migrations"),
		MainAdminPassword: getenv("MAIN_ADMIN_PASSWORD"),
		UrusetiaPassword:  getenv("URUSETIA_PASSWORD"),
		MainAdminEmails:   splitList(getenv("MAIN_ADMIN_EMAILS")),
		CORSOrigins:       splitList(get("CORS_ORIGINS", "*")),
		Discord: OAuthProvider{
			Key:         getenv("DISCORD_KEY"),
			Secret:      getenv("DISCORD_SECRET"),
			CallbackURL: getenv("DISCORD_CALLBACK_URL"),
		},
		Google: OAuthProvider{
			Key:         getenv("GOOGLE_KEY"),
			Secret:      getenv("GOOGLE_SECRET"),
			CallbackURL: getenv("GOOGLE_CALLBACK_URL"),
		},
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
