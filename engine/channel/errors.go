package channel

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

const codespace = "channel"

var (
	ErrChannelExists            = sdkerrors.Register(codespace, 1, "channel already exists")
	ErrChannelNotFound          = sdkerrors.Register(codespace, 2, "channel not found")
	ErrInvalidChannelState      = sdkerrors.Register(codespace, 3, "invalid channel state")
	ErrInvalidCounterparty      = sdkerrors.Register(codespace, 4, "invalid channel counterparty")
	ErrTooManyConnectionHops    = sdkerrors.Register(codespace, 5, "too many connection hops")
	ErrInvalidPacket            = sdkerrors.Register(codespace, 6, "invalid packet")
	ErrPacketTimeout            = sdkerrors.Register(codespace, 7, "packet timeout")
	ErrTimeoutNotReached        = sdkerrors.Register(codespace, 8, "packet timeout has not been reached")
	ErrPacketCommitmentNotFound = sdkerrors.Register(codespace, 9, "packet commitment not found")
	ErrInvalidAcknowledgement   = sdkerrors.Register(codespace, 10, "invalid acknowledgement")
	ErrAcknowledgementExists    = sdkerrors.Register(codespace, 11, "acknowledgement for packet already exists")
	ErrSequenceSendNotFound     = sdkerrors.Register(codespace, 12, "next send sequence not found")
	ErrSequenceReceiveNotFound  = sdkerrors.Register(codespace, 13, "next receive sequence not found")
	ErrSequenceAckNotFound      = sdkerrors.Register(codespace, 14, "next ack sequence not found")
	ErrPacketSequenceOutOfOrder = sdkerrors.Register(codespace, 15, "packet sequence is out of order")
	ErrInvalidChannelVersion    = sdkerrors.Register(codespace, 16, "invalid channel version")
)
