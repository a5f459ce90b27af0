package sequence

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"cashback-ledger/pkg/rediskey"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("sequence",
	fx.Provide(New),
)

const (
	GiftCardPrefix = "GFT"
	QRCodePrefix   = "QR"
)

// Generator produces human-readable codes of the form PREFIX-YYMMDD-XXXNN,
// where XXX is a base36 daily sequence and NN a random suffix.
type Generator interface {
	NextGiftCardCode(ctx context.Context) (string, error)
	NextQRCode(ctx context.Context) (string, error)
}

type Params struct {
	fx.In

	Redis *redis.Client `optional:"true"`
}

func New(p Params) Generator {
	if p.Redis == nil {
		return &RandomGenerator{now: time.Now}
	}
	return &RedisGenerator{rdb: p.Redis, now: time.Now}
}

type RedisGenerator struct {
	rdb *redis.Client
	now func() time.Time
}

func (g *RedisGenerator) NextGiftCardCode(ctx context.Context) (string, error) {
	return g.nextDailyCode(ctx, GiftCardPrefix)
}

func (g *RedisGenerator) NextQRCode(ctx context.Context) (string, error) {
	return g.nextDailyCode(ctx, QRCodePrefix)
}

func (g *RedisGenerator) nextDailyCode(ctx context.Context, prefix string) (string, error) {
	today := g.now().UTC().Format("060102")
	key := rediskey.BuildDailySequenceKey(prefix, today)

	seq, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		zap.L().Warn("sequence: redis incr failed", zap.String("key", key), zap.Error(err))
		return "", err
	}

	if seq == 1 {
		_ = g.rdb.Expire(ctx, key, 25*time.Hour).Err()
	}

	return format(prefix, today, seq)
}

// RandomGenerator is used when no redis is configured. Uniqueness then
// rests on the unique index of the target table.
type RandomGenerator struct {
	now func() time.Time
}

func (g *RandomGenerator) NextGiftCardCode(ctx context.Context) (string, error) {
	return g.next(GiftCardPrefix)
}

func (g *RandomGenerator) NextQRCode(ctx context.Context) (string, error) {
	return g.next(QRCodePrefix)
}

func (g *RandomGenerator) next(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(36*36*36))
	if err != nil {
		return "", err
	}
	return format(prefix, g.now().UTC().Format("060102"), n.Int64()+1)
}

func format(prefix, day string, seq int64) (string, error) {
	encodedSeq := strings.ToUpper(strconv.FormatInt(seq, 36))
	if len(encodedSeq) < 3 {
		encodedSeq = strings.Repeat("0", 3-len(encodedSeq)) + encodedSeq
	}

	randSuffix, err := randomAlphaNumeric(2)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s%s", prefix, day, encodedSeq, randSuffix), nil
}

func randomAlphaNumeric(n int) (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		b[i] = chars[num.Int64()]
	}
	return string(b), nil
}
