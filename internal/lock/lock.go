package lock

import (
	"context"
	"time"

	"woosync/internal/logger"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Locker serializes work per resource across worker replicas with a redis
// lock. A nil Locker is valid and runs the work unguarded; with a single
// consumer the queue's key partitioning already orders same-order events.
type Locker struct {
	locks  *redislock.Client
	logger *logger.Logger
}

func New(redisURL string, log *logger.Logger) (*Locker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	return &Locker{
		locks:  redislock.New(client),
		logger: log,
	}, nil
}

// WithLock runs fn while holding the named lock. Failure to obtain the
// lock within the retry budget skips fn and returns the error.
func (l *Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func()) error {
	if l == nil {
		fn()
		return nil
	}

	lock, err := l.locks.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 100),
	})
	if err != nil {
		l.logger.Error("Failed to obtain lock %s: %v", key, err)
		return err
	}
	defer lock.Release(ctx)

	fn()
	return nil
}
