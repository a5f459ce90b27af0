package retry

import (
	"context"
	"time"

	"cashback-ledger/pkg/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// MaxAttempts is the hard upper bound on attempts regardless of config.
const MaxAttempts = 3

type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	// Retryable classifies errors worth another attempt. Nil retries nothing.
	Retryable func(error) bool
}

func PolicyFromConfig(cfg *config.Config, retryable func(error) bool) Policy {
	r := cfg.Payout.Retry
	return Policy{
		MaxAttempts:  r.MaxAttempts,
		InitialDelay: r.InitialDelay,
		Multiplier:   r.Multiplier,
		Retryable:    retryable,
	}
}

func (p Policy) attempts() int {
	switch {
	case p.MaxAttempts <= 0:
		return 1
	case p.MaxAttempts > MaxAttempts:
		return MaxAttempts
	default:
		return p.MaxAttempts
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	if b.InitialInterval <= 0 {
		b.InitialInterval = time.Millisecond
	}
	b.Multiplier = p.Multiplier
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	b.RandomizationFactor = 0
	b.MaxInterval = b.InitialInterval * time.Duration(1<<MaxAttempts)
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.attempts()-1)), ctx)
}

// Do runs op until it succeeds, returns a non-retryable error, or the
// attempt budget is spent. The last error from op is returned as is.
func Do(ctx context.Context, p Policy, name string, op func(ctx context.Context) error) error {
	attempt := 0
	var last error

	err := backoff.RetryNotify(func() error {
		attempt++
		last = op(ctx)
		if last == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(last) {
			return backoff.Permanent(last)
		}
		return last
	}, p.backOff(ctx), func(err error, next time.Duration) {
		zap.L().Warn("retrying operation",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Duration("next_delay", next),
			zap.Error(err),
		)
	})
	if err == nil {
		return nil
	}
	return last
}
