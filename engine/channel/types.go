// Package channel implements the channel handshake, the packet lifecycle
// over established channels, and packet timeouts. Channels progress
// INIT -> TRYOPEN -> OPEN and may terminate in CLOSED; CLOSED is final.
package channel

import (
	"crypto/sha256"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/types"
)

// State is the handshake phase of a channel end.
type State int32

const (
	UNINITIALIZED State = iota
	INIT
	TRYOPEN
	OPEN
	CLOSED
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case INIT:
		return "INIT"
	case TRYOPEN:
		return "TRYOPEN"
	case OPEN:
		return "OPEN"
	case CLOSED:
		return "CLOSED"
	default:
		return "UNINITIALIZED"
	}
}

// Counterparty names the remote end of a channel.
type Counterparty struct {
	PortID    string
	ChannelID string
}

// NewCounterparty creates a channel counterparty.
func NewCounterparty(portID, channelID string) Counterparty {
	return Counterparty{PortID: portID, ChannelID: channelID}
}

// ValidateBasic performs stateless validation. The channel id is empty until
// the remote end allocates one.
func (c Counterparty) ValidateBasic() error {
	if err := host.PortIdentifierValidator(c.PortID); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty port id")
	}
	if c.ChannelID != "" {
		if err := host.ChannelIdentifierValidator(c.ChannelID); err != nil {
			return sdkerrors.Wrap(err, "invalid counterparty channel id")
		}
	}
	return nil
}

// ChannelEnd is this chain's record of a channel.
type ChannelEnd struct {
	State          State
	Ordering       types.Order
	Counterparty   Counterparty
	ConnectionHops []string
	Version        string
}

// NewChannelEnd creates a channel end.
func NewChannelEnd(state State, ordering types.Order, counterparty Counterparty, hops []string, version string) ChannelEnd {
	return ChannelEnd{
		State:          state,
		Ordering:       ordering,
		Counterparty:   counterparty,
		ConnectionHops: hops,
		Version:        version,
	}
}

// ConnectionID returns the single connection the channel runs over.
func (c ChannelEnd) ConnectionID() string {
	if len(c.ConnectionHops) == 0 {
		return ""
	}
	return c.ConnectionHops[0]
}

// ValidateBasic performs stateless validation of a channel end.
func (c ChannelEnd) ValidateBasic() error {
	if c.Ordering != types.ORDERED && c.Ordering != types.UNORDERED {
		return sdkerrors.Wrap(types.ErrInvalidOrdering, c.Ordering.String())
	}
	if len(c.ConnectionHops) != 1 {
		return sdkerrors.Wrap(ErrTooManyConnectionHops, "current IBC version only supports one connection hop")
	}
	if err := host.ConnectionIdentifierValidator(c.ConnectionHops[0]); err != nil {
		return sdkerrors.Wrap(err, "invalid connection hop")
	}
	return c.Counterparty.ValidateBasic()
}

// Packet is a datagram in flight between two channel ends.
type Packet struct {
	Sequence           uint64
	SourcePort         string
	SourceChannel      string
	DestinationPort    string
	DestinationChannel string
	Data               []byte
	TimeoutHeight      types.Height
	TimeoutTimestamp   uint64
}

// NewPacket creates a packet.
func NewPacket(
	data []byte, sequence uint64,
	sourcePort, sourceChannel, destinationPort, destinationChannel string,
	timeoutHeight types.Height, timeoutTimestamp uint64,
) Packet {
	return Packet{
		Sequence:           sequence,
		SourcePort:         sourcePort,
		SourceChannel:      sourceChannel,
		DestinationPort:    destinationPort,
		DestinationChannel: destinationChannel,
		Data:               data,
		TimeoutHeight:      timeoutHeight,
		TimeoutTimestamp:   timeoutTimestamp,
	}
}

// ValidateBasic performs stateless validation of a packet.
func (p Packet) ValidateBasic() error {
	if err := host.PortIdentifierValidator(p.SourcePort); err != nil {
		return sdkerrors.Wrap(err, "invalid source port")
	}
	if err := host.ChannelIdentifierValidator(p.SourceChannel); err != nil {
		return sdkerrors.Wrap(err, "invalid source channel")
	}
	if err := host.PortIdentifierValidator(p.DestinationPort); err != nil {
		return sdkerrors.Wrap(err, "invalid destination port")
	}
	if err := host.ChannelIdentifierValidator(p.DestinationChannel); err != nil {
		return sdkerrors.Wrap(err, "invalid destination channel")
	}
	if p.Sequence == 0 {
		return sdkerrors.Wrap(ErrInvalidPacket, "packet sequence cannot be 0")
	}
	if p.TimeoutHeight.IsZero() && p.TimeoutTimestamp == 0 {
		return sdkerrors.Wrap(ErrInvalidPacket, "packet timeout height and packet timeout timestamp cannot both be 0")
	}
	if len(p.Data) == 0 {
		return sdkerrors.Wrap(ErrInvalidPacket, "packet data cannot be empty")
	}
	return nil
}

// CommitPacket returns the commitment stored for a sent packet: the hash of
// the timeout fields and the hash of the data. The data itself never enters
// provable state.
func CommitPacket(packet Packet) []byte {
	buf := sdk.Uint64ToBigEndian(packet.TimeoutTimestamp)
	buf = append(buf, sdk.Uint64ToBigEndian(packet.TimeoutHeight.RevisionNumber)...)
	buf = append(buf, sdk.Uint64ToBigEndian(packet.TimeoutHeight.RevisionHeight)...)
	dataHash := sha256.Sum256(packet.Data)
	buf = append(buf, dataHash[:]...)
	hash := sha256.Sum256(buf)
	return hash[:]
}

// CommitAcknowledgement returns the commitment stored for a written
// acknowledgement.
func CommitAcknowledgement(ack []byte) []byte {
	hash := sha256.Sum256(ack)
	return hash[:]
}
