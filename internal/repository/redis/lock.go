package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix       = "lock:exchange:"
	lockPollInterval = 50 * time.Millisecond
)

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serializes work per key across every instance sharing the Redis.
// A holder that dies releases its lock when the ttl lapses.
type Locker struct {
	client *Client
	ttl    time.Duration
}

// NewLocker creates a distributed locker
func NewLocker(client *Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// Lock blocks until the lock for key is held or ctx is done
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := lockPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if ok {
			return func() {
				// Release must run even when the request context is gone.
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(ctx, l.client.rdb, []string{fullKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
