package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/domain"
)

const (
	userCachePrefix = "user:"
	userCacheTTL    = 5 * time.Minute
)

// UserCache is a read-through cache in front of a user repository. Profile
// lookups by id dominate the chat path. Entries never hold the password hash,
// so credential checks must go through GetByEmail.
type UserCache struct {
	client *Client
	next   domain.UserRepository
}

// NewUserCache wraps next with a Redis cache
func NewUserCache(client *Client, next domain.UserRepository) *UserCache {
	return &UserCache{client: client, next: next}
}

// Create inserts through to the underlying repository
func (c *UserCache) Create(ctx context.Context, user *domain.User) error {
	return c.next.Create(ctx, user)
}

// GetByID serves from cache, falling back to the repository
func (c *UserCache) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	key := userCachePrefix + id.String()

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user domain.User
		if err := json.Unmarshal(data, &user); err == nil {
			return &user, nil
		}
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("user_id", id.String()).Msg("user cache read failed")
	}

	user, err := c.next.GetByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}

	c.set(ctx, key, user)
	return user, nil
}

// GetByEmail always reads the repository
func (c *UserCache) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return c.next.GetByEmail(ctx, email)
}

// EmailExists always reads the repository
func (c *UserCache) EmailExists(ctx context.Context, email string) (bool, error) {
	return c.next.EmailExists(ctx, email)
}

// UpdateLastLogin writes through and drops the cached entry
func (c *UserCache) UpdateLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	if err := c.next.UpdateLastLogin(ctx, id, at); err != nil {
		return err
	}
	if err := c.client.rdb.Del(ctx, userCachePrefix+id.String()).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("user cache invalidation failed")
	}
	return nil
}

func (c *UserCache) set(ctx context.Context, key string, user *domain.User) {
	data, err := json.Marshal(user)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal user for cache")
		return
	}
	if err := c.client.rdb.Set(ctx, key, data, userCacheTTL).Err(); err != nil {
		log.Warn().Err(fmt.Errorf("cache set: %w", err)).Str("key", key).Msg("user cache write failed")
	}
}
