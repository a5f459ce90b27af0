package lock

import (
	"context"
	"time"

	"cashback-ledger/pkg/rediskey"
	"cashback-ledger/pkg/util"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const retryInterval = 25 * time.Millisecond

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a lock as a SET NX PX key carrying a random token. The
// TTL bounds how long a crashed holder can block others.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	token, err := util.RandomToken(16)
	if err != nil {
		return nil, err
	}
	name := rediskey.BuildLockKey(key)

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(ctx, name, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrNotAcquired
			}
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ErrNotAcquired
		case <-ticker.C:
		}
	}

	return func() {
		// release must run even if the caller's context is already done
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.rdb, []string{name}, token).Err(); err != nil {
			zap.L().Warn("[Lock] failed to release redis lock", zap.String("key", name), zap.Error(err))
		}
	}, nil
}
