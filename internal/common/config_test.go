package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8090)
	}
}

func TestConfig_DefaultPollInterval(t *testing.T) {
	cfg := NewDefaultConfig()
	if got := cfg.Sync.GetPollInterval(); got != 15*time.Second {
		t.Errorf("Sync.GetPollInterval() = %v, want %v", got, 15*time.Second)
	}
}

func TestConfig_PollIntervalBadValue(t *testing.T) {
	cfg := &Config{Sync: SyncConfig{PollInterval: "not-a-duration"}}
	if got := cfg.Sync.GetPollInterval(); got != 15*time.Second {
		t.Errorf("Sync.GetPollInterval() = %v for invalid value, want fallback %v", got, 15*time.Second)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("PULSE_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_AlpacaKeyEnvOverride(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "key-from-env")
	t.Setenv("APCA_API_SECRET_KEY", "secret-from-env")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.Alpaca.Key != "key-from-env" {
		t.Errorf("Alpaca.Key = %q, want %q", cfg.Clients.Alpaca.Key, "key-from-env")
	}
	if cfg.Clients.Alpaca.Secret != "secret-from-env" {
		t.Errorf("Alpaca.Secret = %q, want %q", cfg.Clients.Alpaca.Secret, "secret-from-env")
	}
}

func TestConfig_GeminiKeyEnvPriority(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("GOOGLE_API_KEY", "fallback")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.Gemini.APIKey != "primary" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Clients.Gemini.APIKey, "primary")
	}
}

func TestLoadConfig_FileMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pulse.toml")
	content := `
environment = "production"

[server]
port = 8443

[clients.alpaca]
base_url = "https://api.alpaca.markets"
timeout = "10s"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.IsProduction() {
		t.Errorf("IsProduction() = false, want true")
	}
	if cfg.Server.Port != 8443 {
		t.Errorf("Server.Port = %d, want 8443", cfg.Server.Port)
	}
	if cfg.Clients.Alpaca.BaseURL != "https://api.alpaca.markets" {
		t.Errorf("Alpaca.BaseURL = %q", cfg.Clients.Alpaca.BaseURL)
	}
	if got := cfg.Clients.Alpaca.GetTimeout(); got != 10*time.Second {
		t.Errorf("Alpaca.GetTimeout() = %v, want 10s", got)
	}
	// Untouched sections keep defaults
	if cfg.Clients.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Gemini.Model = %q, want default", cfg.Clients.Gemini.Model)
	}
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/pulse.toml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil for missing file", err)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want default 8090", cfg.Server.Port)
	}
}
