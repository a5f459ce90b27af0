package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, Pagination{Skip: 0, Limit: DefaultLimit}, Pagination{Skip: -4}.Normalize())
	require.Equal(t, Pagination{Skip: 10, Limit: MaxLimit}, Pagination{Skip: 10, Limit: 1000}.Normalize())
	require.Equal(t, Pagination{Skip: 3, Limit: 7}, Pagination{Skip: 3, Limit: 7}.Normalize())
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Pagination{Skip: 0, Limit: 2}, 5)
	require.True(t, info.HasMore)

	info = BuildPageInfo(Pagination{Skip: 4, Limit: 2}, 5)
	require.False(t, info.HasMore)
	require.EqualValues(t, 5, info.Total)
}
