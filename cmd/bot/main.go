package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"remindbot/internal/ai"
	"remindbot/internal/bot"
	"remindbot/internal/config"
	"remindbot/internal/manager"
	"remindbot/internal/notify"
	"remindbot/internal/scheduler"
	"remindbot/internal/storage"
	"remindbot/internal/timeparse"
	"remindbot/internal/users"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open storage
	store, err := storage.Open(ctx, storage.Config{
		Driver:      cfg.StorageDriver,
		DataDir:     cfg.DataDir,
		DatabaseURI: cfg.DatabaseURI,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()
	log.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")

	mgr := manager.New(ctx, store)

	userService, err := users.NewService(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open users file")
	}

	// Initialize AI client (optional)
	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Info().Str("model", cfg.AIModel).Msg("AI time parsing enabled")
	} else {
		log.Info().Msg("AI client not configured, natural language fallback disabled")
	}

	// Console delivery is always on; Telegram is added when configured.
	notifiers := notify.Multi{notify.NewConsole(os.Stdout)}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create Telegram notifier")
		}
		notifiers = append(notifiers, tg)
		log.Info().Int64("chat_id", cfg.TelegramChatID).Msg("Telegram notifications enabled")
	}

	// Create and start scheduler
	sched := scheduler.New(mgr, notifiers)
	go sched.Start(ctx)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")
		cancel()
	}()

	b := bot.New(mgr, userService, timeparse.New(), aiClient, sched, os.Stdin, os.Stdout)
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot error")
	}
}
