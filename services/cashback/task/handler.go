package task

import (
	"context"
	"fmt"

	"cashback-ledger/pkg/taskname"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Worker = fx.Module("cashback.task.worker",
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)

// LedgerEventTypes are the task types emitted by the cashback service.
var LedgerEventTypes = []string{
	taskname.TransactionRecorded,
	taskname.TransferCompleted,
	taskname.PayoutProcessed,
	taskname.GiftCardRedeemed,
}

type Handler struct {
	log *zap.Logger
}

func NewHandler() *Handler {
	return &Handler{log: zap.L().Named("ledger-events")}
}

func Register(mux *asynq.ServeMux, h *Handler) {
	for _, typ := range LedgerEventTypes {
		mux.HandleFunc(typ, h.HandleLedgerEvent)
	}
	mux.HandleFunc(taskname.CustomerRegistered, h.HandleCustomerRegistered)
}

func (h *Handler) HandleLedgerEvent(ctx context.Context, t *asynq.Task) error {
	p, err := ParseLedgerEvent(t)
	if err != nil {
		// malformed payloads will never succeed
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	h.log.Info("ledger event",
		zap.String("type", p.Type),
		zap.String("event_id", p.EventID),
		zap.String("customer_id", p.CustomerID),
		zap.String("counterparty_id", p.CounterpartyID),
		zap.String("amount", p.Amount.String()),
		zap.String("credited", p.Credited.String()),
		zap.String("reference", p.Reference),
		zap.Time("occurred_at", p.OccurredAt),
	)
	return nil
}

func (h *Handler) HandleCustomerRegistered(ctx context.Context, t *asynq.Task) error {
	h.log.Info("customer registered", zap.ByteString("payload", t.Payload()))
	return nil
}
