package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"chatrelay/internal/api"
	"chatrelay/internal/config"
	"chatrelay/internal/history"
	"chatrelay/internal/line"
	"chatrelay/internal/llm"
	"chatrelay/internal/orchestrator"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	flag.Parse()

	// Load .env if present (development convenience; no-op in production).
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger is not configured yet, so plain stderr here.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	ctx := context.Background()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("history store init failed")
	}
	defer closeStore()

	completer, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		logger.Fatal().Err(err).Msg("llm client init failed")
	}

	orch := orchestrator.New(store, completer, orchestrator.Config{
		Persona:   cfg.Conversation.Persona,
		Stateless: cfg.Conversation.Stateless,
		Logger:    logger,
	})

	server := api.NewServer(orch, line.NewClient(cfg.Line), logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("history_backend", cfg.History.Backend).
			Str("llm_provider", cfg.LLM.Provider).
			Bool("stateless", cfg.Conversation.Stateless).
			Msg("starting chatrelay server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

// newLogger builds the process logger: console writer for local runs,
// JSON for production log shipping.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// newStore builds the configured history backend.
func newStore(ctx context.Context, cfg *config.Config) (history.Store, func(), error) {
	persona := cfg.Conversation.Persona

	switch cfg.History.Backend {
	case "redis":
		s, err := history.NewRedisStore(ctx, cfg.History.RedisURL, persona)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "sqlite":
		s, err := history.NewSQLiteStore(cfg.History.SQLitePath, persona)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return history.NewInMemoryStore(persona), func() {}, nil
	}
}
