package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderString(t *testing.T) {
	require.Equal(t, "ORDER_ORDERED", ORDERED.String())
	require.Equal(t, "ORDER_UNORDERED", UNORDERED.String())
	require.Equal(t, "ORDER_NONE_UNSPECIFIED", NONE.String())
}

func TestOrderFromString(t *testing.T) {
	testCases := []struct {
		input    string
		expected Order
	}{
		{"ORDER_ORDERED", ORDERED},
		{"ORDER_UNORDERED", UNORDERED},
		{"ordered", ORDERED},
		{"Unordered", UNORDERED},
		{"ORDER_NONE_UNSPECIFIED", NONE},
		{"garbage", NONE},
		{"", NONE},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, OrderFromString(tc.input), "input: %q", tc.input)
	}
}
