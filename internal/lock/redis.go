package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the key only if it still holds our token, so a lock
// that expired and was taken by another caller is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every API instance. Each key is a SET NX PX
// entry holding a random token; TTL bounds how long a crashed holder can
// block others.
type Redis struct {
	rdb   *redis.Client
	ttl   time.Duration
	wait  time.Duration
	retry time.Duration
	log   zerolog.Logger
}

// NewRedis creates a Redis-backed Locker. ttl is the lease length; wait is
// the longest Lock will block before returning ErrTimeout.
func NewRedis(rdb *redis.Client, ttl, wait time.Duration, log zerolog.Logger) *Redis {
	return &Redis{
		rdb:   rdb,
		ttl:   ttl,
		wait:  wait,
		retry: 25 * time.Millisecond,
		log:   log.With().Str("component", "redis_lock").Logger(),
	}
}

// Lock polls SET NX until the key is acquired, the wait budget is spent, or
// ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(r.wait)

	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, key)
		}

		timer := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release even when the request context is already cancelled.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, r.rdb, []string{key}, token).Err(); err != nil {
				r.log.Warn().Err(err).Str("key", key).Msg("Lock release failed, waiting for TTL")
			}
		})
	}, nil
}
