package lock

import (
	"context"
	"errors"
	"strings"

	"cashback-ledger/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("lock",
	fx.Provide(New),
)

// ErrNotAcquired is returned when the context ends before the lock is held.
var ErrNotAcquired = errors.New("lock: not acquired")

// Unlock releases a lock obtained from Locker.Lock. It is safe to call once.
type Unlock func()

// Locker grants mutual exclusion per key for the duration of a
// read-modify-write.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

type Params struct {
	fx.In

	Config *config.Config
	Redis  *redis.Client `optional:"true"`
}

func New(p Params) Locker {
	driver := strings.ToLower(p.Config.Lock.Driver)
	if driver == "redis" {
		if p.Redis != nil {
			zap.L().Info("[Lock] using redis locker", zap.Duration("ttl", p.Config.Lock.TTL))
			return NewRedisLocker(p.Redis, p.Config.Lock.TTL)
		}
		zap.L().Warn("[Lock] LOCK.DRIVER=redis but redis is not configured, falling back to memory")
	}
	return NewMemoryLocker()
}

// LockAll acquires keys in the given order and returns a single Unlock that
// releases them in reverse. Callers pass keys already sorted so that every
// multi-key acquisition agrees on the order.
func LockAll(ctx context.Context, l Locker, keys ...string) (Unlock, error) {
	held := make([]Unlock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}

	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		unlock, err := l.Lock(ctx, key)
		if err != nil {
			release()
			return nil, err
		}
		held = append(held, unlock)
	}
	return release, nil
}
