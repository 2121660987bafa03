// Package host implements the ICS-24 host requirements: identifier formats
// and the canonical store paths. Path structure is normative — the
// counterparty verifies Merkle proofs against these exact byte strings.
package host

import (
	"fmt"
	"strings"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Identifier length bounds per ICS-24.
const (
	DefaultMaxCharacterLength = 64

	ClientIDMinLength     = 9
	ConnectionIDMinLength = 10
	ChannelIDMinLength    = 8
	PortIDMinLength       = 2
	PortIDMaxLength       = 128
)

// ErrInvalidID is the sentinel for malformed identifiers, codespace "host".
var ErrInvalidID = sdkerrors.Register("host", 2, "invalid identifier")

// defaultIdentifierValidator checks the ICS-24 charset and the given length
// bounds. It is total over arbitrary input strings.
func defaultIdentifierValidator(id string, min, max int) error {
	if strings.TrimSpace(id) == "" {
		return sdkerrors.Wrap(ErrInvalidID, "identifier cannot be blank")
	}
	if len(id) < min || len(id) > max {
		return sdkerrors.Wrapf(ErrInvalidID, "identifier %s has invalid length %d, must be between %d-%d characters", id, len(id), min, max)
	}
	// the path separator would break store paths
	if strings.Contains(id, "/") {
		return sdkerrors.Wrapf(ErrInvalidID, "identifier %s cannot contain separator '/'", id)
	}
	for _, c := range id {
		if !validIdentifierChar(c) {
			return sdkerrors.Wrapf(ErrInvalidID, "identifier %s contains invalid character %q", id, c)
		}
	}
	return nil
}

func validIdentifierChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.ContainsRune(`.-_+#[]<>()`, c)
}

// ClientIdentifierValidator validates a client identifier.
func ClientIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, ClientIDMinLength, DefaultMaxCharacterLength)
}

// ConnectionIdentifierValidator validates a connection identifier.
func ConnectionIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, ConnectionIDMinLength, DefaultMaxCharacterLength)
}

// ChannelIdentifierValidator validates a channel identifier.
func ChannelIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, ChannelIDMinLength, DefaultMaxCharacterLength)
}

// PortIdentifierValidator validates a port identifier.
func PortIdentifierValidator(id string) error {
	return defaultIdentifierValidator(id, PortIDMinLength, PortIDMaxLength)
}

// FormatClientIdentifier returns the identifier allocated to the n-th client
// of the given client type.
func FormatClientIdentifier(clientType string, sequence uint64) string {
	return fmt.Sprintf("%s-%d", clientType, sequence)
}

// FormatConnectionIdentifier returns the identifier allocated to the n-th
// connection.
func FormatConnectionIdentifier(sequence uint64) string {
	return fmt.Sprintf("connection-%d", sequence)
}

// FormatChannelIdentifier returns the identifier allocated to the n-th
// channel.
func FormatChannelIdentifier(sequence uint64) string {
	return fmt.Sprintf("channel-%d", sequence)
}
