package channel

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/types"
)

// MsgChannelOpenInit starts a channel handshake on this chain.
type MsgChannelOpenInit struct {
	PortID  string
	Channel ChannelEnd
}

var _ types.Msg = (*MsgChannelOpenInit)(nil)

// Route implements types.Msg.
func (msg *MsgChannelOpenInit) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgChannelOpenInit) Type() string { return "channel_open_init" }

// ValidateBasic implements types.Msg.
func (msg *MsgChannelOpenInit) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortID); err != nil {
		return sdkerrors.Wrap(err, "invalid port id")
	}
	if msg.Channel.State != INIT {
		return sdkerrors.Wrapf(ErrInvalidChannelState, "channel state must be %s on init, got %s", INIT, msg.Channel.State)
	}
	if msg.Channel.Counterparty.ChannelID != "" {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty channel id must be empty")
	}
	return msg.Channel.ValidateBasic()
}

// MsgChannelOpenTry acknowledges on this chain a channel handshake started
// on the counterparty.
type MsgChannelOpenTry struct {
	PortID              string
	Channel             ChannelEnd
	CounterpartyVersion string
	ProofInit           []byte
	ProofHeight         types.Height
}

var _ types.Msg = (*MsgChannelOpenTry)(nil)

// Route implements types.Msg.
func (msg *MsgChannelOpenTry) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgChannelOpenTry) Type() string { return "channel_open_try" }

// ValidateBasic implements types.Msg.
func (msg *MsgChannelOpenTry) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortID); err != nil {
		return sdkerrors.Wrap(err, "invalid port id")
	}
	if msg.Channel.State != TRYOPEN {
		return sdkerrors.Wrapf(ErrInvalidChannelState, "channel state must be %s on try, got %s", TRYOPEN, msg.Channel.State)
	}
	if msg.Channel.Counterparty.ChannelID == "" {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty channel id cannot be empty")
	}
	if len(msg.ProofInit) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty channel cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return msg.Channel.ValidateBasic()
}

// MsgChannelOpenAck completes the handshake on the chain that started it.
type MsgChannelOpenAck struct {
	PortID                string
	ChannelID             string
	CounterpartyChannelID string
	CounterpartyVersion   string
	ProofTry              []byte
	ProofHeight           types.Height
}

var _ types.Msg = (*MsgChannelOpenAck)(nil)

// Route implements types.Msg.
func (msg *MsgChannelOpenAck) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgChannelOpenAck) Type() string { return "channel_open_ack" }

// ValidateBasic implements types.Msg.
func (msg *MsgChannelOpenAck) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortID); err != nil {
		return sdkerrors.Wrap(err, "invalid port id")
	}
	if err := host.ChannelIdentifierValidator(msg.ChannelID); err != nil {
		return sdkerrors.Wrap(err, "invalid channel id")
	}
	if err := host.ChannelIdentifierValidator(msg.CounterpartyChannelID); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty channel id")
	}
	if len(msg.ProofTry) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty channel cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return nil
}

// MsgChannelOpenConfirm completes the handshake on the chain that
// acknowledged it.
type MsgChannelOpenConfirm struct {
	PortID      string
	ChannelID   string
	ProofAck    []byte
	ProofHeight types.Height
}

var _ types.Msg = (*MsgChannelOpenConfirm)(nil)

// Route implements types.Msg.
func (msg *MsgChannelOpenConfirm) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgChannelOpenConfirm) Type() string { return "channel_open_confirm" }

// ValidateBasic implements types.Msg.
func (msg *MsgChannelOpenConfirm) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortID); err != nil {
		return sdkerrors.Wrap(err, "invalid port id")
	}
	if err := host.ChannelIdentifierValidator(msg.ChannelID); err != nil {
		return sdkerrors.Wrap(err, "invalid channel id")
	}
	if len(msg.ProofAck) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty channel cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return nil
}

// MsgChannelCloseInit closes a channel from this end.
type MsgChannelCloseInit struct {
	PortID    string
	ChannelID string
}

var _ types.Msg = (*MsgChannelCloseInit)(nil)

// Route implements types.Msg.
func (msg *MsgChannelCloseInit) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgChannelCloseInit) Type() string { return "channel_close_init" }

// ValidateBasic implements types.Msg.
func (msg *MsgChannelCloseInit) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortID); err != nil {
		return sdkerrors.Wrap(err, "invalid port id")
	}
	if err := host.ChannelIdentifierValidator(msg.ChannelID); err != nil {
		return sdkerrors.Wrap(err, "invalid channel id")
	}
	return nil
}

// MsgChannelCloseConfirm closes a channel whose counterparty end has already
// closed.
type MsgChannelCloseConfirm struct {
	PortID      string
	ChannelID   string
	ProofInit   []byte
	ProofHeight types.Height
}

var _ types.Msg = (*MsgChannelCloseConfirm)(nil)

// Route implements types.Msg.
func (msg *MsgChannelCloseConfirm) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgChannelCloseConfirm) Type() string { return "channel_close_confirm" }

// ValidateBasic implements types.Msg.
func (msg *MsgChannelCloseConfirm) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortID); err != nil {
		return sdkerrors.Wrap(err, "invalid port id")
	}
	if err := host.ChannelIdentifierValidator(msg.ChannelID); err != nil {
		return sdkerrors.Wrap(err, "invalid channel id")
	}
	if len(msg.ProofInit) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty channel cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return nil
}

// MsgRecvPacket delivers a packet sent on the counterparty.
type MsgRecvPacket struct {
	Packet          Packet
	ProofCommitment []byte
	ProofHeight     types.Height
}

var _ types.Msg = (*MsgRecvPacket)(nil)

// Route implements types.Msg.
func (msg *MsgRecvPacket) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgRecvPacket) Type() string { return "recv_packet" }

// ValidateBasic implements types.Msg.
func (msg *MsgRecvPacket) ValidateBasic() error {
	if len(msg.ProofCommitment) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the packet commitment cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return msg.Packet.ValidateBasic()
}

// MsgAcknowledgement relays back to the sender an acknowledgement written on
// the receiver.
type MsgAcknowledgement struct {
	Packet          Packet
	Acknowledgement []byte
	ProofAcked      []byte
	ProofHeight     types.Height
}

var _ types.Msg = (*MsgAcknowledgement)(nil)

// Route implements types.Msg.
func (msg *MsgAcknowledgement) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgAcknowledgement) Type() string { return "acknowledge_packet" }

// ValidateBasic implements types.Msg.
func (msg *MsgAcknowledgement) ValidateBasic() error {
	if len(msg.Acknowledgement) == 0 {
		return sdkerrors.Wrap(ErrInvalidAcknowledgement, "acknowledgement cannot be empty")
	}
	if len(msg.ProofAcked) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the acknowledgement cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return msg.Packet.ValidateBasic()
}

// MsgTimeout voids a sent packet whose timeout has elapsed without receipt.
// NextSequenceRecv is the counterparty's receive sequence proven for ordered
// channels; for unordered channels the absence of a receipt is proven
// instead.
type MsgTimeout struct {
	Packet           Packet
	ProofUnreceived  []byte
	ProofHeight      types.Height
	NextSequenceRecv uint64
}

var _ types.Msg = (*MsgTimeout)(nil)

// Route implements types.Msg.
func (msg *MsgTimeout) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgTimeout) Type() string { return "timeout_packet" }

// ValidateBasic implements types.Msg.
func (msg *MsgTimeout) ValidateBasic() error {
	if len(msg.ProofUnreceived) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of non-receipt cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return msg.Packet.ValidateBasic()
}

// MsgTimeoutOnClose voids a sent packet whose destination channel closed
// before receipt. The counterparty's CLOSED end substitutes for timeout
// expiry.
type MsgTimeoutOnClose struct {
	Packet           Packet
	ProofUnreceived  []byte
	ProofClose       []byte
	ProofHeight      types.Height
	NextSequenceRecv uint64
}

var _ types.Msg = (*MsgTimeoutOnClose)(nil)

// Route implements types.Msg.
func (msg *MsgTimeoutOnClose) Route() string { return types.RouterKeyChannel }

// Type implements types.Msg.
func (msg *MsgTimeoutOnClose) Type() string { return "timeout_on_close_packet" }

// ValidateBasic implements types.Msg.
func (msg *MsgTimeoutOnClose) ValidateBasic() error {
	if len(msg.ProofUnreceived) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of non-receipt cannot be empty")
	}
	if len(msg.ProofClose) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty channel closure cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return msg.Packet.ValidateBasic()
}
