package redis_test

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/domain"
	"github.com/Rrens/fitness-coach/internal/repository/redis"
	"github.com/Rrens/fitness-coach/internal/repository/repotest"
	"github.com/Rrens/fitness-coach/internal/repository/sqlstore"
)

// Requires a scratch server, e.g. TEST_REDIS_ADDR=localhost:6379
func newClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	host, portStr, ok := strings.Cut(addr, ":")
	require.True(t, ok, "TEST_REDIS_ADDR must be host:port")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client, err := redis.NewClient(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiter(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	limiter := redis.NewRateLimiter(client, 2, 1)
	key := "test:" + uuid.NewString()
	defer limiter.Reset(ctx, key)

	for i := 0; i < 3; i++ {
		allowed, remaining, reset, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i)
		assert.Equal(t, 2-i, remaining)
		assert.True(t, reset.After(time.Now()))
	}

	allowed, remaining, _, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	// A window boundary between calls resets the counter.
	if !allowed {
		assert.Equal(t, 0, remaining)
	}
	assert.Equal(t, 3, limiter.Limit())
}

func TestLocker_Serializes(t *testing.T) {
	client := newClient(t)
	locker := redis.NewLocker(client, 5*time.Second)
	key := uuid.NewString()

	var (
		active  int32
		overlap int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), key)
			if !assert.NoError(t, err) {
				return
			}
			if atomic.AddInt32(&active, 1) > 1 {
				atomic.StoreInt32(&overlap, 1)
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlap), "lock holders overlapped")
}

func TestLocker_ContextDone(t *testing.T) {
	client := newClient(t)
	locker := redis.NewLocker(client, 5*time.Second)
	key := uuid.NewString()

	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUserCache(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	db, err := sqlstore.New(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	cache := redis.NewUserCache(client, db.Store().Users)

	user := repotest.NewUser()
	require.NoError(t, cache.Create(ctx, user))

	first, err := cache.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	cached, err := cache.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, user.Email, cached.Email)
	assert.Empty(t, cached.PasswordHash)

	raw := goredis.NewClient(&goredis.Options{Addr: os.Getenv("TEST_REDIS_ADDR")})
	defer raw.Close()
	stored, err := raw.Get(ctx, "user:"+user.ID.String()).Result()
	require.NoError(t, err)
	assert.Contains(t, stored, user.Email)
	assert.NotContains(t, stored, "password")
	assert.NotContains(t, stored, user.PasswordHash)

	later := user.LastLogin.Add(time.Hour)
	require.NoError(t, cache.UpdateLastLogin(ctx, user.ID, later))

	fresh, err := cache.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, later, fresh.LastLogin, time.Millisecond)

	missing, err := cache.GetByID(ctx, domain.UserID(uuid.NewString()))
	require.NoError(t, err)
	assert.Nil(t, missing)
}
