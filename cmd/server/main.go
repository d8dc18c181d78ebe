package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sekadau-online/ai-core/internal/api"
	"github.com/sekadau-online/ai-core/internal/chat"
	"github.com/sekadau-online/ai-core/internal/config"
	"github.com/sekadau-online/ai-core/internal/memory"
	"github.com/sekadau-online/ai-core/internal/ollama"
	"github.com/sekadau-online/ai-core/internal/records"
)

func main() {
	// Logger
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Generation backend
	ollamaClient := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaEnabled)
	if cfg.OllamaEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if ollamaClient.HealthCheck(ctx) {
			logger.Info("ollama reachable", "url", cfg.OllamaURL, "model", cfg.OllamaModel)
			if models, err := ollamaClient.ListModels(ctx); err == nil {
				logger.Info("ollama models available", "models", models)
			}
		} else {
			logger.Warn("ollama not reachable, chat will use fallback responses", "url", cfg.OllamaURL)
		}
		cancel()
	}

	// Experience store, restored from the last snapshot when one exists
	store := memory.NewStore()
	if err := store.LoadFile(cfg.MemoryPath); err != nil {
		logger.Warn("could not restore memory snapshot, starting fresh", "path", cfg.MemoryPath, "error", err)
	} else if !store.IsEmpty() {
		logger.Info("restored memory snapshot", "path", cfg.MemoryPath, "experiences", store.Count())
	} else {
		logger.Info("starting with fresh memory")
	}

	// Learning records (SQLite)
	recStore, err := records.Open(cfg.RecordsDBPath)
	if err != nil {
		logger.Error("failed to open records database", "error", err)
		os.Exit(1)
	}
	defer recStore.Close()

	// Chat
	sessions := chat.NewSessionTable()
	processor := chat.NewProcessor(ollamaClient, logger)

	// Background snapshot job, independent of request handling. A failed
	// save is logged and retried on the next tick.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.SaveInterval), func() {
		if err := store.SaveFile(cfg.MemoryPath); err != nil {
			logger.Error("failed to save memory snapshot", "error", err)
			return
		}
		logger.Debug("memory snapshot saved", "path", cfg.MemoryPath)
	})
	if err != nil {
		logger.Error("failed to schedule snapshot job", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	// Router + server
	router := api.NewRouter(store, sessions, processor, recStore, records.NewExecutor(), cfg.BearerToken, logger)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("ai-core server starting", "addr", cfg.Address(), "ollama_enabled", cfg.OllamaEnabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	// One final snapshot so nothing since the last tick is lost.
	if err := store.SaveFile(cfg.MemoryPath); err != nil {
		logger.Error("final memory snapshot failed", "error", err)
	}

	logger.Info("server stopped")
}
