package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeightCompare(t *testing.T) {
	testCases := []struct {
		name     string
		h1       Height
		h2       Height
		expected int64
	}{
		{"revision number takes precedence", NewHeight(2, 1), NewHeight(1, 100), 1},
		{"lower revision number", NewHeight(1, 100), NewHeight(2, 1), -1},
		{"same revision, lower height", NewHeight(1, 5), NewHeight(1, 6), -1},
		{"same revision, higher height", NewHeight(1, 7), NewHeight(1, 6), 1},
		{"equal", NewHeight(3, 3), NewHeight(3, 3), 0},
		{"zero heights equal", ZeroHeight(), ZeroHeight(), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.h1.Compare(tc.h2))

			require.Equal(t, tc.expected == -1, tc.h1.LT(tc.h2))
			require.Equal(t, tc.expected <= 0, tc.h1.LTE(tc.h2))
			require.Equal(t, tc.expected == 1, tc.h1.GT(tc.h2))
			require.Equal(t, tc.expected >= 0, tc.h1.GTE(tc.h2))
			require.Equal(t, tc.expected == 0, tc.h1.EQ(tc.h2))
		})
	}
}

func TestHeightIncrementDecrement(t *testing.T) {
	h := NewHeight(1, 10)
	require.Equal(t, NewHeight(1, 11), h.Increment())

	dec, ok := h.Decrement()
	require.True(t, ok)
	require.Equal(t, NewHeight(1, 9), dec)

	_, ok = NewHeight(1, 0).Decrement()
	require.False(t, ok)
}

func TestParseHeight(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		expPass bool
		exp     Height
	}{
		{"valid", "1-100", true, NewHeight(1, 100)},
		{"valid zero revision", "0-1", true, NewHeight(0, 1)},
		{"missing separator", "100", false, Height{}},
		{"too many parts", "1-2-3", false, Height{}},
		{"non-numeric revision", "a-1", false, Height{}},
		{"non-numeric height", "1-b", false, Height{}},
		{"empty", "", false, Height{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := ParseHeight(tc.input)
			if tc.expPass {
				require.NoError(t, err)
				require.Equal(t, tc.exp, h)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestHeightString(t *testing.T) {
	h, err := ParseHeight(NewHeight(4, 9).String())
	require.NoError(t, err)
	require.Equal(t, NewHeight(4, 9), h)
}

func TestParseChainID(t *testing.T) {
	testCases := []struct {
		name     string
		chainID  string
		revision uint64
	}{
		{"revision format", "gaia-3", 3},
		{"multiple separators", "cosmos-hub-4", 4},
		{"no revision", "testchain", 0},
		{"trailing zero is not a revision", "chain-0", 0},
		{"revision with leading zero rejected", "chain-01", 0},
		{"empty", "", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.revision, ParseChainID(tc.chainID))
		})
	}
}

func TestMinHeight(t *testing.T) {
	require.Equal(t, NewHeight(0, 5), MinHeight(NewHeight(0, 5), NewHeight(1, 1)))
	require.Equal(t, NewHeight(0, 5), MinHeight(NewHeight(1, 1), NewHeight(0, 5)))
	require.True(t, NewHeight(100, 100).LT(MaxHeight()))
}
