package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jwebster45206/tilequest/internal/config"
	"github.com/jwebster45206/tilequest/internal/handlers"
	"github.com/jwebster45206/tilequest/internal/logger"
	"github.com/jwebster45206/tilequest/internal/middleware"
	"github.com/jwebster45206/tilequest/internal/services"
	"github.com/jwebster45206/tilequest/internal/storage"
	"github.com/jwebster45206/tilequest/pkg/world"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Tilequest API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model_name", cfg.ModelName,
		"world_file", cfg.WorldFile)

	w, err := world.Load(cfg.WorldFile)
	if err != nil {
		log.Error("Failed to load world config", "error", err, "file", cfg.WorldFile)
		os.Exit(1)
	}
	log.Info("World loaded", "maps", len(w.Maps), "npcs", len(w.NPCs))

	if cfg.GeminiAPIKey == "" {
		log.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	llmService, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.ModelName, log)
	if err != nil {
		log.Error("Failed to initialize Gemini service", "error", err)
		os.Exit(1)
	}

	var store storage.TranscriptStore = storage.NewRedisStore(cfg.RedisURL, log)
	if err := store.Ping(ctx); err != nil {
		log.Error("Failed to connect to transcript store", "error", err)
		os.Exit(1)
	}
	log.Info("Transcript store connection established")

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, log))
	mux.Handle("/v1/chat", handlers.NewChatHandler(w, llmService, store, cfg.AccessKey, log))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing transcript store", "error", err)
	}
	if err := llmService.Close(); err != nil {
		log.Error("Error closing Gemini service", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
