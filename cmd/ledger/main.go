package main

import (
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"cashback-ledger/pkg/config"
	"cashback-ledger/pkg/db"
	"cashback-ledger/pkg/featureflags"
	"cashback-ledger/pkg/gateway"
	"cashback-ledger/pkg/gen"
	"cashback-ledger/pkg/hashistack/secretmanager"
	"cashback-ledger/pkg/hashistack/servicediscover"
	"cashback-ledger/pkg/health"
	"cashback-ledger/pkg/httpapi"
	"cashback-ledger/pkg/lock"
	"cashback-ledger/pkg/logger"
	"cashback-ledger/pkg/otelcol"
	"cashback-ledger/pkg/profiling"
	"cashback-ledger/pkg/redis"
	"cashback-ledger/pkg/sequence"
	"cashback-ledger/pkg/server"
	"cashback-ledger/pkg/task"
	"cashback-ledger/services/cashback"
	"cashback-ledger/services/customer"
	"cashback-ledger/services/referral"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	opts := []fx.Option{
		secretmanager.Module,
		config.Module,
		logger.Module,
		otelcol.Module,
		profiling.Module,
		db.Module,
		db.Migrate(models()...),
		redis.Module,
		task.Client,
		gen.Module,
		lock.Module,
		sequence.Module,
		gateway.Module,
		featureflags.Module,
		health.Module,
		httpapi.Module,
		customer.Module,
		cashback.Module,
		referral.Module,
		server.ProvideHTTPServer,
		servicediscover.Module,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

func models() []any {
	out := append([]any{}, customer.Models...)
	out = append(out, cashback.Models...)
	return append(out, referral.Models...)
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	if cfg.AppEnv == "production" {
		return fxevent.NopLogger
	}
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
})
