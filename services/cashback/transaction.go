package cashback

import (
	"context"

	"cashback-ledger/pkg/db/money"
	"cashback-ledger/pkg/taskname"
	ledgertask "cashback-ledger/services/cashback/task"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecordTransaction stores the transaction and credits amount*CashbackRate
// to the customer. Both writes commit or roll back together.
func (s *Service) RecordTransaction(ctx context.Context, customerID snowflake.ID, amount decimal.Decimal) (*Transaction, error) {
	if err := validatePositive(amount); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := zap.L().With(logFields(ctx, zap.String("customer_id", customerID.String()))...)

	txn := &Transaction{
		ID:         s.ids.GenerateID(),
		CustomerID: customerID,
		Amount:     money.New(amount),
		Date:       s.now().UTC(),
	}
	cashback := amount.Mul(CashbackRate)

	err := s.mutate(ctx, customerID, func(tx *gorm.DB) error {
		if err := s.transactions.WithTrx(tx).Create(ctx, txn); err != nil {
			return err
		}
		_, err := s.credit(ctx, tx, customerID, cashback)
		return err
	})
	if err != nil {
		log.Error("failed to record transaction", zap.String("amount", amount.String()), zap.Error(err))
		return nil, normalize(ctx, err)
	}

	log.Info("transaction recorded", zap.String("transaction_id", txn.ID.String()), zap.String("cashback", cashback.String()))
	s.publish(ctx, ledgertask.LedgerEventPayload{
		Type:       taskname.TransactionRecorded,
		CustomerID: customerID.String(),
		Amount:     amount,
		Credited:   cashback,
		Reference:  txn.ID.String(),
		Metadata:   datatypes.JSONMap{"cashback_rate": CashbackRate.String()},
		OccurredAt: txn.Date,
	})

	return txn, nil
}

