// Package redislock implements userlock.Locker on Redis so that several
// planner instances share one critical section per user.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/phrazzld/scry-planner/internal/service/userlock"
)

const (
	keyPrefix            = "scry:userlock:"
	defaultRetryInterval = 25 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// ErrLockLost is logged when the lock expired before it was released.
var ErrLockLost = errors.New("user lock expired before release")

// release deletes the key only if it still holds our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a Redis-backed userlock.Locker using SET NX PX.
type Locker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

var _ userlock.Locker = (*Locker)(nil)

// New creates a Locker. ttl bounds how long a crashed holder can block a user.
func New(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Locker {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locker{
		client:        client,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		logger:        logger.With(slog.String("component", "redis_user_lock")),
	}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Lock polls SET NX until it owns the user's key or ctx is done.
func (l *Locker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := keyPrefix + userID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire user lock: %w", err)
		}
		if ok {
			return l.unlockFunc(ctx, key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlockFunc(ctx context.Context, key, token string) func() {
	log := logger.FromContextOrDefault(ctx, l.logger)
	released := false

	return func() {
		if released {
			return
		}
		released = true

		// The caller's context may already be cancelled.
		rctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		n, err := release.Run(rctx, l.client, []string{key}, token).Int()
		if err != nil {
			log.Error("failed to release user lock",
				slog.String("key", key),
				slog.String("error", err.Error()))
			return
		}
		if n == 0 {
			log.Warn("user lock was not held at release",
				slog.String("key", key),
				slog.String("error", ErrLockLost.Error()))
		}
	}
}
