package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the lock is already held by another owner.
var ErrNotAcquired = errors.New("lock already held")

// Locker provides short-lived mutual exclusion on a string key.
type Locker interface {
	// Acquire takes the lock, returning a release function on success.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// unlockScript deletes the key only when the caller still owns it, so a lock
// that expired and was re-acquired by someone else is never released by the
// previous holder.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker backed by a single Redis instance using SET NX with a TTL.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a Redis-backed Locker.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		prefix: "lock:",
	}
}

// Acquire takes the lock for at most ttl. The returned release function is
// safe to call after the TTL elapsed.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	fk := r.prefix + key
	owner := uuid.NewString()

	acquired, err := r.client.SetNX(ctx, fk, owner, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrNotAcquired
	}

	release := func(ctx context.Context) error {
		return unlockScript.Run(ctx, r.client, []string{fk}, owner).Err()
	}

	return release, nil
}
