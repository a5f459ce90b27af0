package cashback

import (
	"context"
	"errors"
	"fmt"

	"cashback-ledger/pkg/errutil"
	"cashback-ledger/pkg/lock"
)

// Error kinds. Every error returned by Service wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrGatewayFailure      = errors.New("gateway failure")
	ErrTimeout             = errors.New("operation timed out")
	ErrSelfTransfer        = errors.New("self transfer")
	ErrConflict            = errors.New("conflict")
	ErrPayoutsDisabled     = errors.New("payouts disabled")
)

const (
	ReasonNotFound            = "NOT_FOUND"
	ReasonInvalidAmount       = "INVALID_AMOUNT"
	ReasonInsufficientBalance = "INSUFFICIENT_BALANCE"
	ReasonGatewayFailure      = "GATEWAY_FAILURE"
	ReasonTimeout             = "TIMEOUT"
	ReasonSelfTransfer        = "SELF_TRANSFER"
	ReasonConflict            = "CONFLICT"
	ReasonFeatureDisabled     = "FEATURE_DISABLED"
)

func notFound(format string, args ...any) error {
	return errutil.NotFound(fmt.Sprintf(format, args...), ErrNotFound, errutil.WithReason(ReasonNotFound))
}

func invalidAmount(msg string) error {
	return errutil.BadRequest(msg, ErrInvalidAmount, errutil.WithReason(ReasonInvalidAmount),
		errutil.WithDetails(errutil.Detail{Field: "amount", Message: msg}))
}

func malformedAmount(field string, err error) error {
	return errutil.BadRequest(field+" must be a decimal number", errors.Join(ErrInvalidAmount, err),
		errutil.WithReason(ReasonInvalidAmount),
		errutil.WithDetails(errutil.Detail{Field: field, Message: "must be a decimal number"}))
}

func selfTransfer() error {
	return errutil.BadRequest("Cannot transfer to the same customer", errors.Join(ErrInvalidAmount, ErrSelfTransfer),
		errutil.WithReason(ReasonSelfTransfer))
}

func insufficientBalance() error {
	return errutil.UnprocessableEntity("Insufficient balance", ErrInsufficientBalance,
		errutil.WithReason(ReasonInsufficientBalance))
}

func conflict(msg string) error {
	return errutil.Conflict(msg, ErrConflict, errutil.WithReason(ReasonConflict))
}

// gatewayFailure keeps the gateway's own error reachable through errors.Is.
func gatewayFailure(err error) error {
	return errutil.BadGateway("Payment gateway failed", fmt.Errorf("%w: %w", ErrGatewayFailure, err),
		errutil.WithReason(ReasonGatewayFailure))
}

func payoutsDisabled() error {
	return errutil.ServiceUnavailable("Payouts are currently disabled", ErrPayoutsDisabled,
		errutil.WithReason(ReasonFeatureDisabled))
}

func timeout(err error) error {
	return errutil.Timeout("Operation timed out", errors.Join(ErrTimeout, err), errutil.WithReason(ReasonTimeout))
}

// normalize converts deadline expiry, including a lock wait cut short by the
// deadline, into the Timeout kind. Other errors pass through.
func normalize(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeout(err)
	}
	if errors.Is(err, lock.ErrNotAcquired) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(err, ctxErr)
		}
	}
	return err
}
