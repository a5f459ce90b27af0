package cashback

import (
	"context"

	"cashback-ledger/pkg/db/money"
	"cashback-ledger/pkg/repository"
	"cashback-ledger/pkg/taskname"
	ledgertask "cashback-ledger/services/cashback/task"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Transfer moves amount from one customer's balance to another's. The debit,
// the credit and the transfer row share one storage transaction.
func (s *Service) Transfer(ctx context.Context, fromID, toID snowflake.ID, amount decimal.Decimal) (*CashbackTransfer, error) {
	if err := validatePositive(amount); err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, selfTransfer()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := zap.L().With(logFields(ctx,
		zap.String("from_customer_id", fromID.String()),
		zap.String("to_customer_id", toID.String()),
		zap.String("amount", amount.String()),
	)...)

	if err := s.requireCustomer(ctx, fromID, "Sender customer"); err != nil {
		return nil, normalize(ctx, err)
	}
	if err := s.requireCustomer(ctx, toID, "Recipient customer"); err != nil {
		return nil, normalize(ctx, err)
	}

	unlock, err := s.lockCustomers(ctx, fromID, toID)
	if err != nil {
		return nil, normalize(ctx, err)
	}
	defer unlock()

	transfer := &CashbackTransfer{
		ID:             s.ids.GenerateID(),
		FromCustomerID: fromID,
		ToCustomerID:   toID,
		Amount:         money.New(amount),
		Date:           s.now().UTC(),
	}

	err = repository.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.debit(ctx, tx, fromID, amount); err != nil {
			return err
		}
		if _, err := s.credit(ctx, tx, toID, amount); err != nil {
			return err
		}
		return s.transfers.WithTrx(tx).Create(ctx, transfer)
	})
	if err != nil {
		log.Warn("transfer failed", zap.Error(err))
		return nil, normalize(ctx, err)
	}

	log.Info("transfer completed", zap.String("transfer_id", transfer.ID.String()))
	s.publish(ctx, ledgertask.LedgerEventPayload{
		Type:           taskname.TransferCompleted,
		CustomerID:     fromID.String(),
		CounterpartyID: toID.String(),
		Amount:         amount,
		Credited:       amount,
		Reference:      transfer.ID.String(),
		OccurredAt:     transfer.Date,
	})

	return transfer, nil
}
