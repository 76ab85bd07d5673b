package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"parley/backend/internal/api"
	"parley/backend/internal/config"
	"parley/backend/internal/credential"
	"parley/backend/internal/database"
	"parley/backend/internal/llm"
	"parley/backend/internal/pricing"
	"parley/backend/internal/repository"
	"parley/backend/internal/service"
)

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	if cfg.MasterKey == "" {
		slog.Error("MASTER_KEY is not set; refusing to store credentials without encryption")
		return 1
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	repo := repository.NewSQLiteRepository(db)

	cipher, err := credential.NewCipher(cfg.MasterKey)
	if err != nil {
		slog.Error("Failed to initialize credential cipher", "error", err)
		return 1
	}
	credentialService := credential.NewService(repo, cipher)

	registry := llm.NewDefaultRegistry(llm.Config{
		Timeout: cfg.LLMRequestTimeout,
		Retry: llm.RetryPolicy{
			MaxAttempts: cfg.LLMMaxRetries,
			BaseDelay:   cfg.LLMRetryBaseDelay,
		},
	})
	accountant := pricing.NewAccountant(pricing.DefaultTable(), cfg.CharsPerToken)

	chatService := service.NewChatService(repo, registry, credentialService, accountant)
	conversationService := service.NewConversationService(repo, credentialService)

	conversationHandler := api.NewConversationHandler(conversationService, chatService)
	credentialHandler := api.NewCredentialHandler(credentialService)
	router := api.NewRouter(conversationHandler, credentialHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
