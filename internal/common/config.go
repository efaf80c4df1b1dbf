// Package common provides shared utilities for Pulse
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Pulse
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Sync        SyncConfig    `toml:"sync"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
// An empty address disables local persistence entirely.
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Alpaca   AlpacaConfig   `toml:"alpaca"`
	Supabase SupabaseConfig `toml:"supabase"`
	Gemini   GeminiConfig   `toml:"gemini"`
}

// AlpacaConfig holds Alpaca API configuration.
// Key and secret may be left empty and supplied at runtime via the
// credentials endpoint; the sync service stays idle until they arrive.
type AlpacaConfig struct {
	BaseURL string `toml:"base_url"`
	Key     string `toml:"key"`
	Secret  string `toml:"secret"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlpacaConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// SupabaseConfig holds Supabase (PostgREST) configuration
type SupabaseConfig struct {
	URL       string `toml:"url"`
	Key       string `toml:"key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *SupabaseConfig) GetTimeout() time.Duration {
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

// SyncConfig holds sync orchestration configuration
type SyncConfig struct {
	PollInterval string `toml:"poll_interval"`
}

// GetPollInterval parses and returns the poll interval duration
func (c *SyncConfig) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 15 * time.Second
	}
	return d
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
			Port: 8090,
		},
		Clients: ClientsConfig{
			Alpaca: AlpacaConfig{
				BaseURL: "https://paper-api.alpaca.markets",
				Timeout: "30s",
			},
			Supabase: SupabaseConfig{
				RateLimit: 5,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Sync: SyncConfig{
			PollInterval: "15s",
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
	if env := os.Getenv("PULSE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PULSE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PULSE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PULSE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("PULSE_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}

	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		config.Clients.Alpaca.Key = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		config.Clients.Alpaca.Secret = v
	}
	if v := os.Getenv("PULSE_ALPACA_BASE_URL"); v != "" {
		config.Clients.Alpaca.BaseURL = v
	}

	if v := os.Getenv("SUPABASE_URL"); v != "" {
		config.Clients.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_KEY"); v != "" {
		config.Clients.Supabase.Key = v
	}

	for _, name := range []string{"GEMINI_API_KEY", "PULSE_GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Gemini.APIKey = v
			break
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
