package cashback

import (
	"context"

	"cashback-ledger/pkg/db/money"
	"cashback-ledger/pkg/featureflags"
	"cashback-ledger/pkg/gateway"
	"cashback-ledger/pkg/retry"
	"cashback-ledger/pkg/taskname"
	ledgertask "cashback-ledger/services/cashback/task"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProcessPayout debits the balance, hands the payout to the gateway under
// the retry policy and records it. A gateway failure rolls the debit back.
func (s *Service) ProcessPayout(ctx context.Context, customerID snowflake.ID, amount decimal.Decimal) (*Payout, error) {
	if err := validatePositive(amount); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := zap.L().With(logFields(ctx,
		zap.String("customer_id", customerID.String()),
		zap.String("amount", amount.String()),
	)...)

	if !s.flags.IsEnabled(ctx, featureflags.PayoutsEnabled, customerID.String(), true) {
		return nil, payoutsDisabled()
	}

	payout := &Payout{
		ID:         s.ids.GenerateID(),
		CustomerID: customerID,
		Amount:     money.New(amount),
	}

	err := s.mutate(ctx, customerID, func(tx *gorm.DB) error {
		current, err := s.ensureBalance(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if current.Balance.LessThan(amount) {
			return insufficientBalance()
		}
		if _, err := s.debit(ctx, tx, customerID, amount); err != nil {
			return err
		}

		var result *gateway.PayoutResult
		if err := retry.Do(ctx, s.retry, "gateway.send_payout", func(ctx context.Context) error {
			r, err := s.gateway.SendPayout(ctx, gateway.PayoutRequest{
				PayoutID:   payout.ID.String(),
				CustomerID: customerID.String(),
				Amount:     amount,
				Currency:   s.currency,
			})
			result = r
			return err
		}); err != nil {
			return gatewayFailure(err)
		}
		if result == nil {
			return gatewayFailure(gateway.ErrRejected)
		}

		payout.GatewayReference = result.Reference
		payout.GatewayStatus = result.Status
		payout.Date = s.now().UTC()
		return s.payouts.WithTrx(tx).Create(ctx, payout)
	})
	if err != nil {
		log.Warn("payout failed", zap.Error(err))
		return nil, normalize(ctx, err)
	}

	log.Info("payout processed", zap.String("payout_id", payout.ID.String()), zap.String("gateway_reference", payout.GatewayReference))
	s.publish(ctx, ledgertask.LedgerEventPayload{
		Type:       taskname.PayoutProcessed,
		CustomerID: customerID.String(),
		Amount:     amount,
		Reference:  payout.GatewayReference,
		Metadata:   datatypes.JSONMap{"payout_id": payout.ID.String()},
		OccurredAt: payout.Date,
	})

	return payout, nil
}

