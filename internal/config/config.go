package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Mail     MailConfig
	Chat     ChatConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	database := loadDatabaseConfig()

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	mail, err := loadMailConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Database: database, Auth: auth, Mail: mail, Chat: chat}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DatabaseConfig describes the Postgres connection.
type DatabaseConfig struct {
	URL            string
	MigrationsPath string
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:            strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
	}
}

// AuthConfig describes token signing and role derivation.
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	AdminEmails []string
}

func loadAuthConfig() (AuthConfig, error) {
	secret := strings.TrimSpace(os.Getenv("AUTH_TOKEN_SECRET"))
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}

	ttlHours := 24
	if override, err := parseOptionalIntEnv("AUTH_TOKEN_TTL_HOURS"); err != nil {
		return AuthConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AuthConfig{}, fmt.Errorf("AUTH_TOKEN_TTL_HOURS must be positive")
		}
		ttlHours = *override
	}

	var admins []string
	for _, email := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			admins = append(admins, email)
		}
	}

	return AuthConfig{
		TokenSecret: secret,
		TokenTTL:    time.Duration(ttlHours) * time.Hour,
		AdminEmails: admins,
	}, nil
}

// MailConfig describes the SMTP relay for citizen notifications.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

func loadMailConfig() (MailConfig, error) {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))

	port := 587
	if override, err := parseOptionalIntEnv("SMTP_PORT"); err != nil {
		return MailConfig{}, err
	} else if override != nil {
		port = *override
	}

	username := strings.TrimSpace(os.Getenv("SMTP_USERNAME"))

	return MailConfig{
		Host:     host,
		Port:     port,
		Username: username,
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnvOrDefault("SMTP_FROM", username),
		Enabled:  host != "",
	}, nil
}

// ChatConfig bounds the widget's simulated composing delay.
type ChatConfig struct {
	DelayMin time.Duration
	DelayMax time.Duration
}

func loadChatConfig() (ChatConfig, error) {
	minMs := 1500
	if override, err := parseOptionalIntEnv("CHAT_DELAY_MIN_MS"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		minMs = *override
	}

	maxMs := 2500
	if override, err := parseOptionalIntEnv("CHAT_DELAY_MAX_MS"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		maxMs = *override
	}

	if minMs < 0 || maxMs < minMs {
		return ChatConfig{}, fmt.Errorf("invalid chat delay bounds: min=%d max=%d", minMs, maxMs)
	}

	return ChatConfig{
		DelayMin: time.Duration(minMs) * time.Millisecond,
		DelayMax: time.Duration(maxMs) * time.Millisecond,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
