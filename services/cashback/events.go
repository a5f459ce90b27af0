package cashback

import (
	"context"

	ledgertask "cashback-ledger/services/cashback/task"

	"go.uber.org/zap"
)

// publish enqueues a ledger event once the storage transaction has
// committed. Delivery is best effort; the ledger rows are the record.
func (s *Service) publish(ctx context.Context, p ledgertask.LedgerEventPayload) {
	if p.EventID == "" {
		p.EventID = s.ids.GenerateID().String()
	}
	if p.OccurredAt.IsZero() {
		p.OccurredAt = s.now().UTC()
	}

	t, err := ledgertask.NewLedgerEventTask(p)
	if err != nil {
		zap.L().With(logFields(ctx)...).Error("failed to build ledger event", zap.String("type", p.Type), zap.Error(err))
		return
	}

	// the operation context may already be near its deadline
	if _, err := s.enqueuer.Enqueue(context.WithoutCancel(ctx), t); err != nil {
		zap.L().With(logFields(ctx)...).Warn("failed to publish ledger event",
			zap.String("type", p.Type), zap.String("event_id", p.EventID), zap.Error(err))
	}
}
