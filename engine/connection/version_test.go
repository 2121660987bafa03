package connection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/ibc-engine/engine/types"
)

func TestValidateVersion(t *testing.T) {
	testCases := []struct {
		name    string
		version *Version
		expPass bool
	}{
		{"default version", DefaultIBCVersion, true},
		{"no features", NewVersion("1", nil), true},
		{"nil version", nil, false},
		{"empty identifier", NewVersion("", []string{types.ORDERED.String()}), false},
		{"empty feature", NewVersion("1", []string{types.ORDERED.String(), ""}), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateVersion(tc.version)
			if tc.expPass {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestIsSupportedVersion(t *testing.T) {
	supported := GetCompatibleVersions()

	require.True(t, IsSupportedVersion(supported, DefaultIBCVersion))
	require.True(t, IsSupportedVersion(supported, NewVersion("1", []string{types.UNORDERED.String()})))
	require.False(t, IsSupportedVersion(supported, NewVersion("2", nil)))
	require.False(t, IsSupportedVersion(supported, NewVersion("1", []string{"ORDER_DAG"})))
}

func TestPickVersion(t *testing.T) {
	testCases := []struct {
		name                 string
		supported            []*Version
		counterpartyVersions []*Version
		expected             *Version
		expPass              bool
	}{
		{
			"identical sets",
			GetCompatibleVersions(),
			GetCompatibleVersions(),
			DefaultIBCVersion,
			true,
		},
		{
			"feature intersection",
			GetCompatibleVersions(),
			[]*Version{NewVersion("1", []string{types.UNORDERED.String()})},
			NewVersion("1", []string{types.UNORDERED.String()}),
			true,
		},
		{
			"local precedence order wins",
			[]*Version{NewVersion("2", []string{"feature"}), DefaultIBCVersion},
			[]*Version{DefaultIBCVersion, NewVersion("2", []string{"feature"})},
			NewVersion("2", []string{"feature"}),
			true,
		},
		{
			"no common identifier",
			GetCompatibleVersions(),
			[]*Version{NewVersion("2", nil)},
			nil,
			false,
		},
		{
			"empty feature intersection skipped",
			GetCompatibleVersions(),
			[]*Version{NewVersion("1", []string{"ORDER_DAG"})},
			nil,
			false,
		},
		{
			"empty counterparty set",
			GetCompatibleVersions(),
			nil,
			nil,
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			version, err := PickVersion(tc.supported, tc.counterpartyVersions)
			if tc.expPass {
				require.NoError(t, err)
				require.Equal(t, tc.expected, version)
			} else {
				require.ErrorIs(t, err, ErrVersionNegotiationFailed)
			}
		})
	}
}
