package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/api/response"
	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/service"
)

type contextKey string

const (
	UserKey contextKey = "user"
)

// OwnerParam is the route parameter holding the resource owner's id
const OwnerParam = "userID"

// Authenticator resolves a bearer token into a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware handles bearer token authentication
type AuthMiddleware struct {
	auth Authenticator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate validates the bearer token and stores the user in the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Not authenticated")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Unauthorized(w, "Not authenticated")
			return
		}

		user, err := m.auth.Authenticate(r.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("authentication rejected")
			response.FromError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser gets the authenticated user from context
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok && user != nil
}

// RequireOwner rejects requests whose path user id is not the caller's
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			response.Unauthorized(w, "Not authenticated")
			return
		}

		owner := domain.UserID(chi.URLParam(r, OwnerParam))
		if err := service.Authorize(user.ID, owner); err != nil {
			response.FromError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimiter counts requests per key
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	Limit() int
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	rateLimiter RateLimiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting based on user ID
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			response.Unauthorized(w, "Not authenticated")
			return
		}

		allowed, remaining, resetTime, err := m.rateLimiter.Allow(r.Context(), user.ID.String())
		if err != nil {
			// Fail open when redis is unavailable
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.rateLimiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
