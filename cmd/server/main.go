package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/api"
	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/llm"
	"github.com/Rrens/fitness-coach/internal/llm/anthropic"
	"github.com/Rrens/fitness-coach/internal/llm/deepseek"
	"github.com/Rrens/fitness-coach/internal/llm/gemini"
	"github.com/Rrens/fitness-coach/internal/llm/ollama"
	"github.com/Rrens/fitness-coach/internal/llm/openai"
	"github.com/Rrens/fitness-coach/internal/logging"
	"github.com/Rrens/fitness-coach/internal/repository"
	"github.com/Rrens/fitness-coach/internal/repository/mongo"
	"github.com/Rrens/fitness-coach/internal/repository/postgres"
	"github.com/Rrens/fitness-coach/internal/repository/redis"
	"github.com/Rrens/fitness-coach/internal/repository/sqlstore"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	closeLogs, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closeLogs()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Msg("Starting Fitness Coach API server")

	ctx := context.Background()

	// Initialize store
	registry := repository.NewRegistry()
	registry.Register("postgres", postgres.Open)
	registry.Register("mongodb", mongo.Open)
	registry.Register("sqlite", sqlstore.Open)
	registry.Register("mysql", sqlstore.Open)

	store, err := registry.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	// Initialize Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
	}

	router, err := api.NewRouter(cfg, store, newLLMRouter(cfg.LLM), redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// newLLMRouter registers every provider that has credentials or a host
func newLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}
	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}

	if len(router.ListProviders()) == 0 {
		log.Warn().Msg("No LLM provider configured")
	}
	return router
}
