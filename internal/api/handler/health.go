package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/api/response"
	"github.com/Rrens/fitness-coach/internal/llm"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store connectivity
func ReadyCheck(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// ListLLMProviders returns the registered model providers
func ListLLMProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.GetProvidersInfo(),
			"default_provider": router.DefaultProvider(),
		})
	}
}
