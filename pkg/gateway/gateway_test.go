package gateway

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestStubSendPayout(t *testing.T) {
	res, err := NewStub().SendPayout(context.Background(), PayoutRequest{
		PayoutID:   "123",
		CustomerID: "9",
		Amount:     decimal.NewFromInt(5),
		Currency:   "USD",
	})
	require.NoError(t, err)
	require.Equal(t, "po_123", res.Reference)
	require.Equal(t, StatusPaid, res.Status)
}

func TestStubRejectsNonPositive(t *testing.T) {
	_, err := NewStub().SendPayout(context.Background(), PayoutRequest{Amount: decimal.Zero})
	require.ErrorIs(t, err, ErrRejected)
	require.False(t, IsTransient(err))
}

func TestIsTransient(t *testing.T) {
	require.True(t, IsTransient(fmt.Errorf("wrapped: %w", ErrUnavailable)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStub().SendPayout(ctx, PayoutRequest{Amount: decimal.NewFromInt(1)})
	require.True(t, IsTransient(err))
}
