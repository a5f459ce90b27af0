package task

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestNewEnqueuerWithoutClientIsNoop(t *testing.T) {
	enq := NewEnqueuer(nil)
	_, ok := enq.(Noop)
	require.True(t, ok)

	info, err := enq.Enqueue(context.Background(), asynq.NewTask("ledger:test", []byte(`{}`)))
	require.NoError(t, err)
	require.Equal(t, "ledger:test", info.Type)
}
