package host

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIdentifierValidator(t *testing.T) {
	testCases := []struct {
		name    string
		id      string
		expPass bool
	}{
		{"valid lowercase", "transfer", true},
		{"valid id special chars", "validid.-_+#[]<>()", true},
		{"valid id upper and lower", "camelCaseID0123", true},
		{"blank id", "       ", false},
		{"id length out of range", "i", false},
		{"id is too long", strings.Repeat("b", 65), false},
		{"path-like id", "id/1", false},
		{"invalid id special chars", "id!@$", false},
		{"whitespace inside", "id 1", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := defaultIdentifierValidator(tc.id, 2, DefaultMaxCharacterLength)
			if tc.expPass {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestIdentifierValidators(t *testing.T) {
	require.NoError(t, ClientIdentifierValidator("07-tendermint-0"))
	require.Error(t, ClientIdentifierValidator("short"))

	require.NoError(t, ConnectionIdentifierValidator("connection-0"))
	require.Error(t, ConnectionIdentifierValidator("conn"))

	require.NoError(t, ChannelIdentifierValidator("channel-0"))
	require.Error(t, ChannelIdentifierValidator("chan"))

	require.NoError(t, PortIdentifierValidator("transfer"))
	require.Error(t, PortIdentifierValidator("p"))
	require.Error(t, PortIdentifierValidator(strings.Repeat("p", 129)))
}

func TestFormatIdentifiers(t *testing.T) {
	require.Equal(t, "07-tendermint-3", FormatClientIdentifier("07-tendermint", 3))
	require.Equal(t, "connection-0", FormatConnectionIdentifier(0))
	require.Equal(t, "channel-7", FormatChannelIdentifier(7))

	// allocated identifiers must round-trip through their validators
	require.NoError(t, ClientIdentifierValidator(FormatClientIdentifier("07-tendermint", 0)))
	require.NoError(t, ConnectionIdentifierValidator(FormatConnectionIdentifier(0)))
	require.NoError(t, ChannelIdentifierValidator(FormatChannelIdentifier(0)))
}
