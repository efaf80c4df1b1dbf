package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/pulse/internal/clients/alpaca"
	"github.com/bobmcallan/pulse/internal/clients/gemini"
	"github.com/bobmcallan/pulse/internal/clients/supabase"
	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
	"github.com/bobmcallan/pulse/internal/services/chat"
	"github.com/bobmcallan/pulse/internal/services/portfolio"
	storagesurreal "github.com/bobmcallan/pulse/internal/storage/surrealdb"
)

// App holds all initialized services, clients, and storage. It is the shared
// core behind cmd/pulse-server.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.StorageManager
	AlpacaClient   interfaces.AlpacaClient
	SupabaseClient interfaces.SupabaseClient
	GeminiClient   interfaces.GeminiClient
	SyncService    interfaces.SyncService
	ChatService    interfaces.ChatService
	StartupTime    time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Load configuration - check provided path, PULSE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("PULSE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "pulse.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/pulse.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	// Local cache storage is optional; without it the service runs in memory
	// and cold-starts empty.
	var storageManager interfaces.StorageManager
	if config.Storage.Address != "" {
		manager, err := storagesurreal.NewManager(logger, config)
		if err != nil {
			logger.Warn().Err(err).Msg("Local cache unavailable - running without persistence")
		} else {
			storageManager = manager
		}
	}

	alpacaClient := alpaca.NewClient(
		alpaca.WithBaseURL(config.Clients.Alpaca.BaseURL),
		alpaca.WithLogger(logger),
		alpaca.WithTimeout(config.Clients.Alpaca.GetTimeout()),
	)

	var supabaseClient interfaces.SupabaseClient
	if config.Clients.Supabase.URL != "" && config.Clients.Supabase.Key != "" {
		supabaseClient = supabase.NewClient(config.Clients.Supabase.URL, config.Clients.Supabase.Key,
			supabase.WithLogger(logger),
			supabase.WithRateLimit(config.Clients.Supabase.RateLimit),
			supabase.WithTimeout(config.Clients.Supabase.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("Supabase not configured - journal and notes will be unavailable")
	}

	ctx := context.Background()

	var geminiClient interfaces.GeminiClient
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client initialization failed - assistant will be unavailable")
		} else {
			geminiClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - assistant will be unavailable")
	}

	var snapshotStore interfaces.SnapshotStore
	var transcriptStore interfaces.TranscriptStore
	if storageManager != nil {
		snapshotStore = storageManager.SnapshotStore()
		transcriptStore = storageManager.TranscriptStore()
	}

	syncService := portfolio.NewService(alpacaClient, snapshotStore, logger, config.Sync.GetPollInterval())
	syncService.WarmStart(ctx)

	var chatService interfaces.ChatService
	if geminiClient != nil {
		chatService = chat.NewService(geminiClient, supabaseClient, transcriptStore, logger)
	}

	app := &App{
		Config:         config,
		Logger:         logger,
		Storage:        storageManager,
		AlpacaClient:   alpacaClient,
		SupabaseClient: supabaseClient,
		GeminiClient:   geminiClient,
		SyncService:    syncService,
		ChatService:    chatService,
		StartupTime:    time.Now(),
	}

	// Credentials from the environment start the poll loop immediately;
	// otherwise the service idles until POST /api/credentials.
	creds := models.Credentials{
		Key:    config.Clients.Alpaca.Key,
		Secret: config.Clients.Alpaca.Secret,
	}
	if !creds.IsZero() {
		syncService.SetCredentials(creds)
	} else {
		logger.Info().Msg("No brokerage credentials configured - waiting for POST /api/credentials")
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Bool("persistence", storageManager != nil).
		Bool("supabase", supabaseClient != nil).
		Bool("gemini", geminiClient != nil).
		Msg("Application initialized")

	return app, nil
}

// Close stops polling and releases storage resources.
func (a *App) Close() error {
	if a.SyncService != nil {
		a.SyncService.StopPolling()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}
	return nil
}
