package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
)

const (
	keyPrefix  = "aurora:lock:"
	DefaultTTL = constants.DefaultLockTTL
)

// release deletes the key only while it still holds our token
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extend pushes the expiry out only while the key still holds our token
var extend = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker holds per-user locks in Redis so several processes sharing a
// database do not commit overlapping placements. A held lock is renewed
// every TTL/3 until released; a crashed holder's lock expires after TTL.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configure the Redis connection
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisLocker(opts RedisOptions) *RedisLocker {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Username: opts.Username,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl: ttl,
	}
}

// Ping checks the connection
func (r *RedisLocker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := keyPrefix + userID
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock for %s: %w", userID, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go r.keepAlive(key, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := release.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
				logger.With("lock").Warn("failed to release lock", "user", userID, "error", err)
			}
		})
	}, nil
}

// keepAlive renews key until stop closes or the token is no longer ours
func (r *RedisLocker) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.ttl/3)
			n, err := extend.Run(ctx, r.client, []string{key}, token, r.ttl.Milliseconds()).Int()
			cancel()
			if err != nil {
				logger.With("lock").Warn("failed to renew lock", "key", key, "error", err)
				continue
			}
			if n == 0 {
				logger.With("lock").Warn("lock lost before release", "key", key)
				return
			}
		}
	}
}

func (r *RedisLocker) Close() error {
	return r.client.Close()
}
