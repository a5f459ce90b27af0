package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"cashback-ledger/pkg/config"
	"cashback-ledger/pkg/db"
	"cashback-ledger/pkg/db/money"
	"cashback-ledger/pkg/gateway"
	"cashback-ledger/pkg/gen"
	"cashback-ledger/pkg/lock"
	"cashback-ledger/pkg/logger"
	"cashback-ledger/pkg/redis"
	"cashback-ledger/pkg/sequence"
	"cashback-ledger/services/cashback"
)

// giftcard issues a batch of gift cards and exits:
//
//	seed-giftcard -count 10 -value 25
//	seed-giftcard -codes GIFT123,GIFT456 -value 50
func main() {
	count := flag.Int("count", 10, "number of cards to generate when -codes is empty")
	value := flag.String("value", "25", "value of every card")
	codes := flag.String("codes", "", "comma separated card codes")
	flag.Parse()

	amount, err := decimal.NewFromString(*value)
	if err != nil || !amount.IsPositive() {
		log.Fatalf("invalid -value %q", *value)
	}

	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		db.Migrate(cashback.Models...),
		redis.Module,
		gen.Module,
		lock.Module,
		sequence.Module,
		gateway.Module,
		fx.Provide(cashback.NewService),
		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, svc *cashback.Service, next sequence.Generator) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						exit := 0
						if err := seed(svc, next, splitCodes(*codes), *count, amount); err != nil {
							zap.L().Error("gift card seeding failed", zap.Error(err))
							exit = 1
						}
						_ = shutdowner.Shutdown(fx.ExitCode(exit))
					}()
					return nil
				},
			})
		}),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)
	app.Run()
}

func splitCodes(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func seed(svc *cashback.Service, next sequence.Generator, codes []string, count int, value decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if len(codes) == 0 {
		for i := 0; i < count; i++ {
			code, err := next.NextGiftCardCode(ctx)
			if err != nil {
				return err
			}
			codes = append(codes, code)
		}
	}

	cards := make([]*cashback.GiftCard, 0, len(codes))
	for _, code := range codes {
		cards = append(cards, &cashback.GiftCard{Code: code, Value: money.New(value)})
	}

	if err := svc.IssueGiftCards(ctx, cards); err != nil {
		return err
	}

	for _, c := range cards {
		zap.L().Info("gift card issued", zap.String("code", c.Code), zap.String("value", c.Value.String()))
	}
	return nil
}
