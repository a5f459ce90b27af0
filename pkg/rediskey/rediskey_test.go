package rediskey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	require.Equal(t, "cashback:lock:customer:42", BuildLockKey(BuildCustomerLockKey("42")))
	require.Equal(t, "seq:GFT:261014", BuildDailySequenceKey("GFT", "261014"))
}
