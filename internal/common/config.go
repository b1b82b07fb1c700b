// Package common provides shared utilities for Foliowatch
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Foliowatch
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Auth        AuthConfig    `toml:"auth"`
	Digest      DigestConfig  `toml:"digest"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gmail  GmailConfig  `toml:"gmail"`
	Sheets SheetsConfig `toml:"sheets"`
	Gemini GeminiConfig `toml:"gemini"`
}

// GmailConfig holds Gmail API configuration. SenderQuery is the server-side
// search filter for vendor performance emails.
type GmailConfig struct {
	BaseURL     string `toml:"base_url"`
	AccessToken string `toml:"access_token"`
	SenderQuery string `toml:"sender_query"`
	RateLimit   int    `toml:"rate_limit"`
	Timeout     string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GmailConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// SheetsConfig holds Google Sheets API configuration for the model-account
// mapping sheet. Column A is the model name, column B the account name.
type SheetsConfig struct {
	BaseURL       string `toml:"base_url"`
	AccessToken   string `toml:"access_token"`
	SpreadsheetID string `toml:"spreadsheet_id"`
	MappingRange  string `toml:"mapping_range"`
	ModelsRange   string `toml:"models_range"`
	RateLimit     int    `toml:"rate_limit"`
	Timeout       string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *SheetsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// AuthConfig holds authentication configuration for the admin API surface.
// AdminPasswordHash is a bcrypt hash; plaintext passwords never appear in
// config.
type AuthConfig struct {
	JWTSecret         string `toml:"jwt_secret"`
	TokenExpiry       string `toml:"token_expiry"`
	AdminUsername     string `toml:"admin_username"`
	AdminPasswordHash string `toml:"admin_password_hash"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// DigestConfig holds the daily digest schedule (cron expression) and the
// commentary switch.
type DigestConfig struct {
	Schedule   string `toml:"schedule"`
	Commentary bool   `toml:"commentary"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			Gmail: GmailConfig{
				BaseURL:     "https://gmail.googleapis.com",
				SenderQuery: `from:"StockApp Systems"`,
				RateLimit:   5,
				Timeout:     "30s",
			},
			Sheets: SheetsConfig{
				BaseURL:      "https://sheets.googleapis.com",
				MappingRange: "Mappings!A:B",
				ModelsRange:  "Models!A:A",
				RateLimit:    5,
				Timeout:      "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Digest: DigestConfig{
			Schedule:   "30 6 * * 1-5", // weekday mornings, after vendor emails arrive
			Commentary: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIOWATCH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIOWATCH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIOWATCH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIOWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("FOLIOWATCH_GMAIL_TOKEN"); v != "" {
		config.Clients.Gmail.AccessToken = v
	}
	if v := os.Getenv("FOLIOWATCH_SHEETS_TOKEN"); v != "" {
		config.Clients.Sheets.AccessToken = v
	}
	if v := os.Getenv("FOLIOWATCH_SHEET_ID"); v != "" {
		config.Clients.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("FOLIOWATCH_GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && config.Clients.Gemini.APIKey == "" {
		config.Clients.Gemini.APIKey = v
	}

	if v := os.Getenv("FOLIOWATCH_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOLIOWATCH_AUTH_ADMIN_USERNAME"); v != "" {
		config.Auth.AdminUsername = v
	}
	if v := os.Getenv("FOLIOWATCH_AUTH_ADMIN_PASSWORD_HASH"); v != "" {
		config.Auth.AdminPasswordHash = v
	}
}

// Validate checks construction-time requirements. A missing sheet ID or mail
// token is a configuration failure surfaced at startup, not at request time.
func (c *Config) Validate() error {
	if c.Clients.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("sheets spreadsheet_id is required")
	}
	if c.Clients.Gmail.AccessToken == "" {
		return fmt.Errorf("gmail access_token is required")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
