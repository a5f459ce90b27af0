package cashback

import (
	"context"
	"sort"
	"time"

	"cashback-ledger/pkg/config"
	"cashback-ledger/pkg/featureflags"
	"cashback-ledger/pkg/gateway"
	"cashback-ledger/pkg/gen"
	"cashback-ledger/pkg/lock"
	"cashback-ledger/pkg/rediskey"
	"cashback-ledger/pkg/repository"
	"cashback-ledger/pkg/retry"
	"cashback-ledger/pkg/sequence"
	"cashback-ledger/pkg/task"
	"cashback-ledger/services/customer"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	ids      gen.IDGenerator
	locker   lock.Locker
	gateway  gateway.Gateway
	currency string
	flags    featureflags.FeatureFlag
	enqueuer task.Enqueuer
	codes    sequence.Generator
	retry    retry.Policy
	timeout  time.Duration
	now      func() time.Time

	customers    repository.Repository[customer.Customer]
	balances     repository.Repository[CashbackBalance]
	transactions repository.Repository[Transaction]
	transfers    repository.Repository[CashbackTransfer]
	payouts      repository.Repository[Payout]
	giftcards    repository.Repository[GiftCard]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Config   *config.Config
	IDs      gen.IDGenerator
	Locker   lock.Locker
	Gateway  gateway.Gateway
	Codes    sequence.Generator
	Flags    featureflags.FeatureFlag `optional:"true"`
	Enqueuer task.Enqueuer            `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	s := &Service{
		db:       p.DB,
		ids:      p.IDs,
		locker:   p.Locker,
		gateway:  p.Gateway,
		currency: p.Config.Payout.Currency,
		flags:    p.Flags,
		enqueuer: p.Enqueuer,
		codes:    p.Codes,
		retry:    retry.PolicyFromConfig(p.Config, gateway.IsTransient),
		timeout:  p.Config.Cashback.OperationTimeout,
		now:      time.Now,

		customers:    repository.ProvideStore[customer.Customer](p.DB),
		balances:     repository.ProvideStore[CashbackBalance](p.DB),
		transactions: repository.ProvideStore[Transaction](p.DB),
		transfers:    repository.ProvideStore[CashbackTransfer](p.DB),
		payouts:      repository.ProvideStore[Payout](p.DB),
		giftcards:    repository.ProvideStore[GiftCard](p.DB),
	}
	if s.flags == nil {
		s.flags = featureflags.Static{}
	}
	if s.enqueuer == nil {
		s.enqueuer = task.Noop{}
	}
	return s
}

func logFields(ctx context.Context, fields ...zap.Field) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return append([]zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}, fields...)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// lockCustomers takes the per-customer locks in ascending id order.
func (s *Service) lockCustomers(ctx context.Context, ids ...snowflake.ID) (lock.Unlock, error) {
	sorted := append([]snowflake.ID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	keys := make([]string, 0, len(sorted))
	for _, id := range sorted {
		keys = append(keys, rediskey.BuildCustomerLockKey(id.String()))
	}
	return lock.LockAll(ctx, s.locker, keys...)
}

func (s *Service) requireCustomer(ctx context.Context, id snowflake.ID, role string) error {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound("%s %s not found", role, id)
	}
	return nil
}

func validatePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidAmount("amount must be greater than zero")
	}
	return nil
}

func validateNonNegative(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalidAmount("amount must not be negative")
	}
	return nil
}
