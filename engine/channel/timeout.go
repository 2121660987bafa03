package channel

import (
	"bytes"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/connection"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// TimeoutPacketResult carries a proven-unreceived packet whose timeout has
// passed. Timing out a packet on an ordered channel closes the channel.
type TimeoutPacketResult struct {
	Packet   Packet
	Ordering types.Order
	Channel  ChannelEnd

	// NoOp marks a timeout whose commitment is already gone.
	NoOp bool
}

// TimeoutPacketValidate proves that the packet timed out before the
// counterparty received it: the timeout is behind the proof height, and the
// counterparty provably has no receipt (unordered) or a receive sequence
// that never reached the packet (ordered).
func (k Keeper) TimeoutPacketValidate(r state.Reader, msg *MsgTimeout) (*TimeoutPacketResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	packet := msg.Packet

	channel, conn, err := k.openChannelConnection(r, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return nil, err
	}
	if err := k.checkTimeoutPacket(r, channel, packet); err != nil {
		return nil, err
	}

	stored, err := k.GetPacketCommitment(r, packet.SourcePort, packet.SourceChannel, packet.Sequence)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return &TimeoutPacketResult{Packet: packet, Ordering: channel.Ordering, Channel: channel, NoOp: true}, nil
	}
	if !bytes.Equal(stored, CommitPacket(packet)) {
		return nil, sdkerrors.Wrapf(ErrInvalidPacket,
			"commitment bytes do not match the packet for sequence %d", packet.Sequence)
	}

	// the timeout must have elapsed as of the proven counterparty state
	proofTimestamp, err := k.connectionKeeper.GetTimestampAtHeight(r, conn, msg.ProofHeight)
	if err != nil {
		return nil, err
	}
	timedOutHeight := !packet.TimeoutHeight.IsZero() && msg.ProofHeight.GTE(packet.TimeoutHeight)
	timedOutTime := packet.TimeoutTimestamp != 0 && proofTimestamp >= packet.TimeoutTimestamp
	if !timedOutHeight && !timedOutTime {
		return nil, sdkerrors.Wrapf(ErrTimeoutNotReached,
			"proof height %s, timeout height %s, proof timestamp %d, timeout timestamp %d",
			msg.ProofHeight, packet.TimeoutHeight, proofTimestamp, packet.TimeoutTimestamp)
	}

	if err := k.verifyPacketUnreceived(r, channel, conn, packet, msg.ProofUnreceived, msg.ProofHeight, msg.NextSequenceRecv); err != nil {
		return nil, err
	}

	return &TimeoutPacketResult{Packet: packet, Ordering: channel.Ordering, Channel: channel}, nil
}

// TimeoutPacketExecute clears the packet commitment and, on ordered
// channels, closes the channel.
func (k Keeper) TimeoutPacketExecute(w state.Writer, res *TimeoutPacketResult) ([]types.Event, error) {
	packet := res.Packet
	events := []types.Event{}

	if !res.NoOp {
		if err := k.DeletePacketCommitment(w, packet.SourcePort, packet.SourceChannel, packet.Sequence); err != nil {
			return nil, err
		}
		if res.Ordering == types.ORDERED {
			channel := res.Channel
			channel.State = CLOSED
			if err := k.SetChannel(w, packet.SourcePort, packet.SourceChannel, channel); err != nil {
				return nil, err
			}
			events = append(events, types.NewEvent(EventTypeChannelClosed,
				types.NewAttribute(AttributeKeyPortID, packet.SourcePort),
				types.NewAttribute(AttributeKeyChannelID, packet.SourceChannel),
				types.NewAttribute(AttributeKeyCounterpartyPortID, channel.Counterparty.PortID),
				types.NewAttribute(AttributeKeyCounterpartyChannelID, channel.Counterparty.ChannelID),
				types.NewAttribute(AttributeKeyConnectionID, channel.ConnectionID()),
			))
			k.log.Info("ordered channel closed by packet timeout",
				zap.String("channel_id", packet.SourceChannel),
				zap.Uint64("sequence", packet.Sequence),
			)
		}
	}

	k.log.Debug("packet timed out",
		zap.String("src_channel", packet.SourceChannel),
		zap.Uint64("sequence", packet.Sequence),
		zap.Bool("no_op", res.NoOp),
	)

	event := packetEvent(EventTypeTimeoutPacket, packet)
	event.Attributes = append(event.Attributes,
		types.NewAttribute(AttributeKeyChannelOrdering, res.Ordering.String()))
	return append([]types.Event{event}, events...), nil
}

// TimeoutOnCloseValidate proves the counterparty closed its channel end
// before receiving the packet. Closure substitutes for timeout expiry; the
// timeout fields themselves need not have elapsed.
func (k Keeper) TimeoutOnCloseValidate(r state.Reader, msg *MsgTimeoutOnClose) (*TimeoutPacketResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	packet := msg.Packet

	channel, err := k.GetChannel(r, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return nil, err
	}
	conn, err := k.connectionKeeper.OpenConnection(r, channel.ConnectionID())
	if err != nil {
		return nil, err
	}
	if err := k.checkTimeoutPacket(r, channel, packet); err != nil {
		return nil, err
	}

	stored, err := k.GetPacketCommitment(r, packet.SourcePort, packet.SourceChannel, packet.Sequence)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return &TimeoutPacketResult{Packet: packet, Ordering: channel.Ordering, Channel: channel, NoOp: true}, nil
	}
	if !bytes.Equal(stored, CommitPacket(packet)) {
		return nil, sdkerrors.Wrapf(ErrInvalidPacket,
			"commitment bytes do not match the packet for sequence %d", packet.Sequence)
	}

	expected := NewChannelEnd(
		CLOSED, channel.Ordering,
		NewCounterparty(packet.SourcePort, packet.SourceChannel),
		[]string{conn.Counterparty.ConnectionID},
		channel.Version,
	)
	if err := k.verifyChannelState(r, conn, msg.ProofHeight, msg.ProofClose,
		channel.Counterparty.PortID, channel.Counterparty.ChannelID, expected); err != nil {
		return nil, err
	}

	if err := k.verifyPacketUnreceived(r, channel, conn, packet, msg.ProofUnreceived, msg.ProofHeight, msg.NextSequenceRecv); err != nil {
		return nil, err
	}

	return &TimeoutPacketResult{Packet: packet, Ordering: channel.Ordering, Channel: channel}, nil
}

// TimeoutOnCloseExecute is TimeoutPacketExecute: both timeout paths converge
// on the same state transition.
func (k Keeper) TimeoutOnCloseExecute(w state.Writer, res *TimeoutPacketResult) ([]types.Event, error) {
	return k.TimeoutPacketExecute(w, res)
}

// checkTimeoutPacket checks the packet names this channel as its source end.
func (k Keeper) checkTimeoutPacket(r state.Reader, channel ChannelEnd, packet Packet) error {
	if channel.Counterparty.PortID != packet.DestinationPort || channel.Counterparty.ChannelID != packet.DestinationChannel {
		return sdkerrors.Wrapf(ErrInvalidPacket,
			"packet destination %s/%s does not match channel counterparty %s/%s",
			packet.DestinationPort, packet.DestinationChannel, channel.Counterparty.PortID, channel.Counterparty.ChannelID)
	}
	return nil
}

// verifyPacketUnreceived proves the counterparty never received the packet:
// absence of the receipt for unordered channels, a receive sequence at or
// below the packet's for ordered channels.
func (k Keeper) verifyPacketUnreceived(
	r state.Reader, channel ChannelEnd, conn connection.ConnectionEnd,
	packet Packet, proof []byte, proofHeight types.Height, nextSequenceRecv uint64,
) error {
	switch channel.Ordering {
	case types.UNORDERED:
		if err := k.connectionKeeper.VerifyNonMembership(
			r, conn, proofHeight, proof,
			host.PacketReceiptPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence),
		); err != nil {
			return sdkerrors.Wrap(err, "packet receipt absence verification failed")
		}
		return nil
	case types.ORDERED:
		if nextSequenceRecv > packet.Sequence {
			return sdkerrors.Wrapf(ErrInvalidPacket,
				"packet with sequence %d already received, next receive sequence %d", packet.Sequence, nextSequenceRecv)
		}
		if err := k.connectionKeeper.VerifyMembership(
			r, conn, proofHeight, proof,
			host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel),
			sdk.Uint64ToBigEndian(nextSequenceRecv),
		); err != nil {
			return sdkerrors.Wrap(err, "next receive sequence verification failed")
		}
		return nil
	default:
		return sdkerrors.Wrap(types.ErrInvalidOrdering, channel.Ordering.String())
	}
}
