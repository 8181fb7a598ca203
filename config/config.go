// Package config loads all settings from environment variables. A .env file
// in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the whole server configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Email       EmailConfig
	GitHub      GitHubConfig
	Encryption  EncryptionConfig
	Ingredients IngredientsConfig
	Log         LogConfig
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string
}

// JWTConfig controls access and refresh tokens.
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // days
}

// EmailConfig is optional; an empty ResendAPIKey disables sending.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	AppURL       string
}

// Enabled reports whether an email provider is configured.
func (c EmailConfig) Enabled() bool { return c.ResendAPIKey != "" }

// GitHubConfig is the upstream recipe repository for contributions.
// Token is the fallback used when a user has not saved their own.
type GitHubConfig struct {
	UpstreamOwner string
	UpstreamRepo  string
	Token         string
	APIBaseURL    string
}

// EncryptionConfig holds the AES-256 key for secrets at rest, 64 hex chars.
type EncryptionConfig struct {
	Key string
}

// IngredientsConfig tunes the ingredient catalog.
type IngredientsConfig struct {
	// ResolveThreshold is the minimum similarity (0-1) for a fuzzy match.
	ResolveThreshold float64
	CacheTTL         time.Duration
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level string
	Dev   bool
}

// Load reads the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("INGREDIENT_RESOLVE_THRESHOLD", "0.8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid INGREDIENT_RESOLVE_THRESHOLD: %w", err)
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("INGREDIENT_RESOLVE_THRESHOLD must be in (0, 1], got %v", threshold)
	}

	cacheTTL, err := time.ParseDuration(getEnv("INGREDIENT_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGREDIENT_CACHE_TTL: %w", err)
	}

	logDev, err := strconv.ParseBool(getEnv("LOG_DEV", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_DEV: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	encryptionKey := getEnv("ENCRYPTION_KEY", "")
	if len(encryptionKey) != 64 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 64 hex characters")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/foodie.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("RESEND_FROM", "noreply@foodie.app"),
			AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		},
		GitHub: GitHubConfig{
			UpstreamOwner: getEnv("GITHUB_UPSTREAM_OWNER", "foodie-app"),
			UpstreamRepo:  getEnv("GITHUB_UPSTREAM_REPO", "recipes"),
			Token:         getEnv("GITHUB_TOKEN", ""),
			APIBaseURL:    getEnv("GITHUB_API_URL", ""),
		},
		Encryption: EncryptionConfig{
			Key: encryptionKey,
		},
		Ingredients: IngredientsConfig{
			ResolveThreshold: threshold,
			CacheTTL:         cacheTTL,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Dev:   logDev,
		},
	}

	return cfg, nil
}

// Addr is the listen address, e.g. "0.0.0.0:9090".
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
