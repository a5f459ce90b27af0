package cashback

import (
	"context"
	"errors"

	"cashback-ledger/pkg/db/money"
	"cashback-ledger/pkg/db/option"
	"cashback-ledger/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provision creates the zero balance of a freshly registered customer inside
// the registration transaction.
func (s *Service) Provision(ctx context.Context, tx *gorm.DB, customerID snowflake.ID) error {
	_, err := s.ensureBalance(ctx, tx, customerID)
	return err
}

// GetBalance returns the customer's balance, creating a zero balance when
// none exists yet.
func (s *Service) GetBalance(ctx context.Context, customerID snowflake.ID) (decimal.Decimal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var out decimal.Decimal
	err := s.mutate(ctx, customerID, func(tx *gorm.DB) error {
		b, err := s.ensureBalance(ctx, tx, customerID)
		if err != nil {
			return err
		}
		out = b.Balance.Decimal
		return nil
	})
	if err != nil {
		return decimal.Zero, normalize(ctx, err)
	}
	return out, nil
}

func (s *Service) AddBalance(ctx context.Context, customerID snowflake.ID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validateNonNegative(amount); err != nil {
		return decimal.Zero, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var out decimal.Decimal
	err := s.mutate(ctx, customerID, func(tx *gorm.DB) (err error) {
		out, err = s.credit(ctx, tx, customerID, amount)
		return err
	})
	if err != nil {
		zap.L().With(logFields(ctx)...).Warn("add balance failed", zap.String("customer_id", customerID.String()), zap.Error(err))
		return decimal.Zero, normalize(ctx, err)
	}
	return out, nil
}

func (s *Service) DeductBalance(ctx context.Context, customerID snowflake.ID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validateNonNegative(amount); err != nil {
		return decimal.Zero, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var out decimal.Decimal
	err := s.mutate(ctx, customerID, func(tx *gorm.DB) (err error) {
		out, err = s.debit(ctx, tx, customerID, amount)
		return err
	})
	if err != nil {
		zap.L().With(logFields(ctx)...).Warn("deduct balance failed", zap.String("customer_id", customerID.String()), zap.Error(err))
		return decimal.Zero, normalize(ctx, err)
	}
	return out, nil
}

// mutate checks the customer exists, holds its lock and runs fn in one
// storage transaction.
func (s *Service) mutate(ctx context.Context, customerID snowflake.ID, fn func(tx *gorm.DB) error) error {
	if err := s.requireCustomer(ctx, customerID, "Customer"); err != nil {
		return err
	}

	unlock, err := s.lockCustomers(ctx, customerID)
	if err != nil {
		return err
	}
	defer unlock()

	return repository.Transaction(ctx, s.db, fn)
}

// ensureBalance returns the locked balance row, creating a zero row on first
// use. A duplicate key means another process created it first.
func (s *Service) ensureBalance(ctx context.Context, tx *gorm.DB, customerID snowflake.ID) (*CashbackBalance, error) {
	balances := s.balances.WithTrx(tx)

	b, err := balances.FindOne(ctx, &CashbackBalance{CustomerID: customerID}, option.WithLockingUpdate())
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}

	b = &CashbackBalance{
		ID:         s.ids.GenerateID(),
		CustomerID: customerID,
		Balance:    money.New(decimal.Zero),
	}
	err = tx.Transaction(func(sp *gorm.DB) error {
		return balances.WithTrx(sp).Create(ctx, b)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		b, err = balances.FindOne(ctx, &CashbackBalance{CustomerID: customerID}, option.WithLockingUpdate())
		if err == nil && b == nil {
			err = notFound("Balance for customer %s not found", customerID)
		}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) credit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount decimal.Decimal) (decimal.Decimal, error) {
	b, err := s.ensureBalance(ctx, tx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsZero() {
		return b.Balance.Decimal, nil
	}
	return s.store(ctx, tx, b, b.Balance.Add(amount))
}

// debit subtracts amount only if the balance covers it.
func (s *Service) debit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount decimal.Decimal) (decimal.Decimal, error) {
	b, err := s.balances.WithTrx(tx).FindOne(ctx, &CashbackBalance{CustomerID: customerID}, option.WithLockingUpdate())
	if err != nil {
		return decimal.Zero, err
	}
	if b == nil || b.Balance.LessThan(amount) {
		return decimal.Zero, insufficientBalance()
	}
	if amount.IsZero() {
		return b.Balance.Decimal, nil
	}
	return s.store(ctx, tx, b, b.Balance.Sub(amount))
}

// store writes next only while the row still holds the balance b was read
// with. Arithmetic stays in decimal so no dialect rounds it.
func (s *Service) store(ctx context.Context, tx *gorm.DB, b *CashbackBalance, next decimal.Decimal) (decimal.Decimal, error) {
	rows, err := s.balances.WithTrx(tx).UpdateWhere(ctx, &CashbackBalance{ID: b.ID}, map[string]any{
		"balance": money.New(next),
	}, option.ApplyOperator(option.Condition{Field: "balance", Operator: option.EQ, Value: b.Balance}))
	if err != nil {
		return decimal.Zero, err
	}
	if rows == 0 {
		return decimal.Zero, conflict("Balance changed concurrently")
	}
	return next, nil
}
