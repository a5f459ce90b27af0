package cashback

import (
	"context"
	"errors"
	"strings"

	"cashback-ledger/pkg/db/money"
	"cashback-ledger/pkg/db/option"
	"cashback-ledger/pkg/repository"
	"cashback-ledger/pkg/taskname"
	ledgertask "cashback-ledger/services/cashback/task"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RedeemGiftCard credits the card's value to the customer and deletes the
// card. Credit runs before delete; if the delete finds nothing, a concurrent
// redemption won and the credit is rolled back.
func (s *Service) RedeemGiftCard(ctx context.Context, code string, customerID snowflake.ID) (decimal.Decimal, error) {
	code = strings.TrimSpace(code)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := zap.L().With(logFields(ctx, zap.String("code", code), zap.String("customer_id", customerID.String()))...)

	if code == "" {
		return decimal.Zero, notFound("Gift card not found")
	}

	var value decimal.Decimal
	err := s.mutate(ctx, customerID, func(tx *gorm.DB) error {
		cards := s.giftcards.WithTrx(tx)

		card, err := cards.FindOne(ctx, &GiftCard{Code: code}, option.WithLockingUpdate())
		if err != nil {
			return err
		}
		if card == nil {
			return notFound("Gift card %s not found", code)
		}

		if _, err := s.credit(ctx, tx, customerID, card.Value.Decimal); err != nil {
			return err
		}

		rows, err := cards.Delete(ctx, &GiftCard{ID: card.ID})
		if err != nil {
			return err
		}
		if rows == 0 {
			return notFound("Gift card %s not found", code)
		}

		value = card.Value.Decimal
		return nil
	})
	if err != nil {
		log.Warn("gift card redemption failed", zap.Error(err))
		return decimal.Zero, normalize(ctx, err)
	}

	log.Info("gift card redeemed", zap.String("value", value.String()))
	s.publish(ctx, ledgertask.LedgerEventPayload{
		Type:       taskname.GiftCardRedeemed,
		CustomerID: customerID.String(),
		Amount:     value,
		Credited:   value,
		Reference:  code,
	})

	return value, nil
}

// IssueGiftCard creates a card worth value. An empty code is generated.
func (s *Service) IssueGiftCard(ctx context.Context, code string, value decimal.Decimal) (*GiftCard, error) {
	if err := validatePositive(value); err != nil {
		return nil, invalidAmount("value must be greater than zero")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	code = strings.TrimSpace(code)
	if code == "" {
		generated, err := s.codes.NextGiftCardCode(ctx)
		if err != nil {
			return nil, normalize(ctx, err)
		}
		code = generated
	}

	existing, err := s.giftcards.FindOne(ctx, &GiftCard{Code: code})
	if err != nil {
		return nil, normalize(ctx, err)
	}
	if existing != nil {
		return nil, conflict("Gift card code already exists")
	}

	card := &GiftCard{
		ID:    s.ids.GenerateID(),
		Code:  code,
		Value: money.New(value),
	}
	if err := s.giftcards.Create(ctx, card); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Gift card code already exists")
		}
		return nil, normalize(ctx, err)
	}

	zap.L().With(logFields(ctx)...).Info("gift card issued", zap.String("code", code), zap.String("value", value.String()))
	return card, nil
}

// IssueGiftCards creates cards in one batch; used by the seeding tool.
func (s *Service) IssueGiftCards(ctx context.Context, cards []*GiftCard) error {
	for _, c := range cards {
		if err := validatePositive(c.Value.Decimal); err != nil {
			return err
		}
		if c.ID == 0 {
			c.ID = s.ids.GenerateID()
		}
	}
	return repository.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.giftcards.WithTrx(tx).BatchCreate(ctx, cards); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("Gift card code already exists")
			}
			return err
		}
		return nil
	})
}

func (s *Service) GetGiftCard(ctx context.Context, code string) (*GiftCard, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, notFound("Gift card not found")
	}

	card, err := s.giftcards.FindOne(ctx, &GiftCard{Code: code})
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, notFound("Gift card %s not found", code)
	}
	return card, nil
}
