package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"cashback-ledger/pkg/config"
	"cashback-ledger/pkg/hashistack/secretmanager"
	"cashback-ledger/pkg/logger"
	"cashback-ledger/pkg/otelcol"
	"cashback-ledger/pkg/task"
	ledgertask "cashback-ledger/services/cashback/task"
)

// worker consumes the ledger events published by the ledger API.
func main() {
	app := fx.New(
		secretmanager.Module,
		config.Module,
		logger.Module,
		otelcol.Module,
		task.Server,
		ledgertask.Worker,
		fxLogger,
	)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
