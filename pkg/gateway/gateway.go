package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("gateway",
	fx.Provide(fx.Annotate(NewStub, fx.As(new(Gateway)))),
)

var (
	// ErrUnavailable marks a failure worth retrying (timeouts, 5xx).
	ErrUnavailable = errors.New("gateway: unavailable")
	// ErrRejected marks a final answer from the processor.
	ErrRejected = errors.New("gateway: payout rejected")
)

// StatusPaid is reported once the processor has settled the payout.
const StatusPaid = "paid"

type PayoutRequest struct {
	PayoutID   string
	CustomerID string
	Amount     decimal.Decimal
	Currency   string
}

type PayoutResult struct {
	Reference string
	Status    string
}

// Gateway moves money out of the ledger to the customer.
type Gateway interface {
	SendPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Stub accepts every payout and echoes a deterministic reference.
type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) SendPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrRejected)
	}

	zap.L().Info("gateway: payout accepted",
		zap.String("payout_id", req.PayoutID),
		zap.String("customer_id", req.CustomerID),
		zap.String("amount", req.Amount.String()),
		zap.String("currency", req.Currency),
	)

	return &PayoutResult{
		Reference: "po_" + req.PayoutID,
		Status:    StatusPaid,
	}, nil
}
