package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/api/handler"
	customMiddleware "github.com/Rrens/fitness-coach/internal/api/middleware"
	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/llm"
	"github.com/Rrens/fitness-coach/internal/repository"
	"github.com/Rrens/fitness-coach/internal/repository/redis"
	"github.com/Rrens/fitness-coach/internal/security"
	"github.com/Rrens/fitness-coach/internal/service"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil,
// in which case locking stays in-process and requests are not rate limited.
func NewRouter(cfg *config.Config, store *repository.Store, llmRouter *llm.Router, redisClient *redis.Client) (http.Handler, error) {
	provider, err := llmRouter.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to select llm provider: %w", err)
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	tokens := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.Issuer)
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	validator := security.NewInputValidator()

	// Users are read on every authenticated request
	var users domain.UserRepository = store.Users
	var locker service.Locker
	var rateLimit func(http.Handler) http.Handler
	if redisClient != nil {
		users = redis.NewUserCache(redisClient, store.Users)
		locker = redis.NewLocker(redisClient, cfg.Coach.LockTTL)
		rateLimiter := redis.NewRateLimiter(
			redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
		rateLimit = customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit
	} else {
		log.Info().Msg("Redis disabled, using in-process locks and no rate limiting")
	}

	// Initialize services
	authService := service.NewAuthService(users, hasher, tokens, validator)
	assembler := service.NewContextAssembler(users, store.Progress, store.Messages, service.ContextOptions{
		ProgressWindow:  cfg.Coach.ProgressWindow,
		HistoryMessages: cfg.Coach.HistoryMessages,
		MaxChars:        cfg.Coach.MaxContextChars,
	})
	coachService := service.NewCoachService(assembler, store.Messages, provider, locker, service.CoachOptions{
		Temperature:   cfg.Coach.Temperature,
		ChatMaxTokens: cfg.Coach.ChatMaxTokens,
		PlanMaxTokens: cfg.Coach.PlanMaxTokens,
		Timeout:       cfg.LLM.Timeout,
	})
	progressService := service.NewProgressService(store.Progress, store.Messages, validator)

	log.Info().
		Str("provider", provider.Name()).
		Str("model", provider.DefaultModel()).
		Msg("Coach initialized")

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(coachService, progressService, validator)
	progressHandler := handler.NewProgressHandler(progressService)
	planHandler := handler.NewPlanHandler(coachService)

	authMiddleware := customMiddleware.NewAuthMiddleware(authService)

	// Public routes
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(store))
	r.Post("/token", authHandler.Login)
	r.Post("/users/", authHandler.Register)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		if rateLimit != nil {
			r.Use(rateLimit)
		}

		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.RequireOwner)

			r.Post("/chat/{userID}", chatHandler.Chat)
			r.Get("/chat/history/{userID}", chatHandler.History)
			r.Post("/progress/{userID}", progressHandler.Add)
			r.Get("/progress/{userID}", progressHandler.List)
			r.Post("/workout-plan/{userID}", planHandler.Workout)
			r.Post("/diet-plan/{userID}", planHandler.Diet)
		})
	})

	return r, nil
}
