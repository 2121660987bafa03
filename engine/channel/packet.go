package channel

import (
	"bytes"
	"encoding/hex"
	"fmt"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// SendPacketResult carries a fully formed packet ready to be committed.
type SendPacketResult struct {
	Packet Packet
}

// SendPacketValidate forms the next packet on the channel and checks it can
// still reach the counterparty: the channel and its connection are open, the
// client is active, and the client has not already passed the timeout.
func (k Keeper) SendPacketValidate(
	r state.Reader, sourcePort, sourceChannel string,
	timeoutHeight types.Height, timeoutTimestamp uint64, data []byte,
) (*SendPacketResult, error) {
	channel, conn, err := k.openChannelConnection(r, sourcePort, sourceChannel)
	if err != nil {
		return nil, err
	}

	clientKeeper := k.connectionKeeper.ClientKeeper()
	if err := clientKeeper.ActiveClient(r, conn.ClientID); err != nil {
		return nil, err
	}

	// the packet must not be born dead: the destination, as currently
	// trusted by our client, must not have passed the timeout already
	clientState, err := clientKeeper.GetClientState(r, conn.ClientID)
	if err != nil {
		return nil, err
	}
	latestHeight := clientState.GetLatestHeight()
	if !timeoutHeight.IsZero() && latestHeight.GTE(timeoutHeight) {
		return nil, sdkerrors.Wrapf(ErrPacketTimeout,
			"receiving chain block height %s >= packet timeout height %s", latestHeight, timeoutHeight)
	}
	latestTimestamp, err := clientKeeper.GetTimestampAtHeight(r, conn.ClientID, latestHeight)
	if err != nil {
		return nil, err
	}
	if timeoutTimestamp != 0 && latestTimestamp >= timeoutTimestamp {
		return nil, sdkerrors.Wrapf(ErrPacketTimeout,
			"receiving chain block timestamp %d >= packet timeout timestamp %d", latestTimestamp, timeoutTimestamp)
	}

	sequence, err := k.GetNextSequenceSend(r, sourcePort, sourceChannel)
	if err != nil {
		return nil, err
	}

	packet := NewPacket(data, sequence,
		sourcePort, sourceChannel,
		channel.Counterparty.PortID, channel.Counterparty.ChannelID,
		timeoutHeight, timeoutTimestamp,
	)
	if err := packet.ValidateBasic(); err != nil {
		return nil, err
	}
	return &SendPacketResult{Packet: packet}, nil
}

// SendPacketExecute commits the packet and advances the send sequence.
func (k Keeper) SendPacketExecute(w state.Writer, res *SendPacketResult) ([]types.Event, error) {
	packet := res.Packet
	if err := k.SetNextSequenceSend(w, packet.SourcePort, packet.SourceChannel, packet.Sequence+1); err != nil {
		return nil, err
	}
	if err := k.SetPacketCommitment(w, packet.SourcePort, packet.SourceChannel, packet.Sequence, CommitPacket(packet)); err != nil {
		return nil, err
	}

	k.log.Debug("packet sent",
		zap.String("src_channel", packet.SourceChannel),
		zap.Uint64("sequence", packet.Sequence),
	)

	return []types.Event{packetEvent(EventTypeSendPacket, packet)}, nil
}

// RecvPacketResult carries a verified inbound packet.
type RecvPacketResult struct {
	Packet   Packet
	Ordering types.Order

	// NoOp marks a duplicate delivery: the packet was already received and
	// re-delivery must change nothing.
	NoOp bool
}

// RecvPacketValidate proves the packet was sent on the counterparty and is
// still deliverable here. Duplicate deliveries validate as no-ops; on
// ordered channels a sequence beyond the next expected one is rejected.
func (k Keeper) RecvPacketValidate(r state.Reader, msg *MsgRecvPacket) (*RecvPacketResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	packet := msg.Packet

	channel, conn, err := k.openChannelConnection(r, packet.DestinationPort, packet.DestinationChannel)
	if err != nil {
		return nil, err
	}
	if channel.Counterparty.PortID != packet.SourcePort || channel.Counterparty.ChannelID != packet.SourceChannel {
		return nil, sdkerrors.Wrapf(ErrInvalidPacket,
			"packet source %s/%s does not match channel counterparty %s/%s",
			packet.SourcePort, packet.SourceChannel, channel.Counterparty.PortID, channel.Counterparty.ChannelID)
	}

	// a packet whose timeout has passed on this chain must be timed out on
	// the sender, never received here
	selfHeight := k.hostHeight()
	if !packet.TimeoutHeight.IsZero() && selfHeight.GTE(packet.TimeoutHeight) {
		return nil, sdkerrors.Wrapf(ErrPacketTimeout,
			"block height %s >= packet timeout height %s", selfHeight, packet.TimeoutHeight)
	}
	if packet.TimeoutTimestamp != 0 && k.hostTime() >= packet.TimeoutTimestamp {
		return nil, sdkerrors.Wrapf(ErrPacketTimeout,
			"block timestamp %d >= packet timeout timestamp %d", k.hostTime(), packet.TimeoutTimestamp)
	}

	if err := k.connectionKeeper.VerifyMembership(
		r, conn, msg.ProofHeight, msg.ProofCommitment,
		host.PacketCommitmentPath(packet.SourcePort, packet.SourceChannel, packet.Sequence),
		CommitPacket(packet),
	); err != nil {
		return nil, sdkerrors.Wrap(err, "packet commitment verification failed")
	}

	noOp := false
	switch channel.Ordering {
	case types.UNORDERED:
		received, err := k.HasPacketReceipt(r, packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
		if err != nil {
			return nil, err
		}
		noOp = received
	case types.ORDERED:
		nextSequenceRecv, err := k.GetNextSequenceRecv(r, packet.DestinationPort, packet.DestinationChannel)
		if err != nil {
			return nil, err
		}
		switch {
		case packet.Sequence < nextSequenceRecv:
			noOp = true
		case packet.Sequence > nextSequenceRecv:
			return nil, sdkerrors.Wrapf(ErrPacketSequenceOutOfOrder,
				"packet sequence %d, next receive sequence %d", packet.Sequence, nextSequenceRecv)
		}
	default:
		return nil, sdkerrors.Wrap(types.ErrInvalidOrdering, channel.Ordering.String())
	}

	return &RecvPacketResult{Packet: packet, Ordering: channel.Ordering, NoOp: noOp}, nil
}

// RecvPacketExecute marks the packet received. Duplicates change no state
// but still emit the receive event.
func (k Keeper) RecvPacketExecute(w state.Writer, res *RecvPacketResult) ([]types.Event, error) {
	packet := res.Packet
	if !res.NoOp {
		switch res.Ordering {
		case types.UNORDERED:
			if err := k.SetPacketReceipt(w, packet.DestinationPort, packet.DestinationChannel, packet.Sequence); err != nil {
				return nil, err
			}
		case types.ORDERED:
			if err := k.SetNextSequenceRecv(w, packet.DestinationPort, packet.DestinationChannel, packet.Sequence+1); err != nil {
				return nil, err
			}
		}
	}

	k.log.Debug("packet received",
		zap.String("dst_channel", packet.DestinationChannel),
		zap.Uint64("sequence", packet.Sequence),
		zap.Bool("no_op", res.NoOp),
	)

	event := packetEvent(EventTypeRecvPacket, packet)
	event.Attributes = append(event.Attributes,
		types.NewAttribute(AttributeKeyChannelOrdering, res.Ordering.String()))
	return []types.Event{event}, nil
}

// WriteAcknowledgementResult carries an acknowledgement ready to be
// committed.
type WriteAcknowledgementResult struct {
	Packet          Packet
	Acknowledgement []byte
}

// WriteAcknowledgementValidate checks the acknowledgement can be written:
// the channel is open and no acknowledgement exists for the sequence yet.
// Acknowledgements are write-once.
func (k Keeper) WriteAcknowledgementValidate(r state.Reader, packet Packet, ack []byte) (*WriteAcknowledgementResult, error) {
	if len(ack) == 0 {
		return nil, sdkerrors.Wrap(ErrInvalidAcknowledgement, "acknowledgement cannot be empty")
	}
	if _, _, err := k.openChannelConnection(r, packet.DestinationPort, packet.DestinationChannel); err != nil {
		return nil, err
	}
	exists, err := k.HasPacketAcknowledgement(r, packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, sdkerrors.Wrapf(ErrAcknowledgementExists,
			"port %s, channel %s, sequence %d", packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	}
	return &WriteAcknowledgementResult{Packet: packet, Acknowledgement: ack}, nil
}

// WriteAcknowledgementExecute commits the acknowledgement.
func (k Keeper) WriteAcknowledgementExecute(w state.Writer, res *WriteAcknowledgementResult) ([]types.Event, error) {
	packet := res.Packet
	if err := k.SetPacketAcknowledgement(
		w, packet.DestinationPort, packet.DestinationChannel, packet.Sequence,
		CommitAcknowledgement(res.Acknowledgement),
	); err != nil {
		return nil, err
	}

	event := packetEvent(EventTypeWriteAcknowledgement, packet)
	event.Attributes = append(event.Attributes,
		types.NewAttribute(AttributeKeyAckHex, hex.EncodeToString(res.Acknowledgement)))
	return []types.Event{event}, nil
}

// AcknowledgePacketResult carries a verified acknowledgement of a sent
// packet.
type AcknowledgePacketResult struct {
	Packet   Packet
	Ordering types.Order

	// NoOp marks an acknowledgement whose commitment is already gone: the
	// packet was acknowledged or timed out before.
	NoOp bool
}

// AcknowledgePacketValidate proves the counterparty wrote the
// acknowledgement for a packet this chain still holds a commitment for.
func (k Keeper) AcknowledgePacketValidate(r state.Reader, msg *MsgAcknowledgement) (*AcknowledgePacketResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	packet := msg.Packet

	channel, conn, err := k.openChannelConnection(r, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return nil, err
	}
	if channel.Counterparty.PortID != packet.DestinationPort || channel.Counterparty.ChannelID != packet.DestinationChannel {
		return nil, sdkerrors.Wrapf(ErrInvalidPacket,
			"packet destination %s/%s does not match channel counterparty %s/%s",
			packet.DestinationPort, packet.DestinationChannel, channel.Counterparty.PortID, channel.Counterparty.ChannelID)
	}

	stored, err := k.GetPacketCommitment(r, packet.SourcePort, packet.SourceChannel, packet.Sequence)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		// commitment already cleared: the packet lifecycle has completed
		return &AcknowledgePacketResult{Packet: packet, Ordering: channel.Ordering, NoOp: true}, nil
	}
	if !bytes.Equal(stored, CommitPacket(packet)) {
		return nil, sdkerrors.Wrapf(ErrInvalidPacket,
			"commitment bytes do not match the packet for sequence %d", packet.Sequence)
	}

	if err := k.connectionKeeper.VerifyMembership(
		r, conn, msg.ProofHeight, msg.ProofAcked,
		host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence),
		CommitAcknowledgement(msg.Acknowledgement),
	); err != nil {
		return nil, sdkerrors.Wrap(err, "acknowledgement verification failed")
	}

	if channel.Ordering == types.ORDERED {
		nextSequenceAck, err := k.GetNextSequenceAck(r, packet.SourcePort, packet.SourceChannel)
		if err != nil {
			return nil, err
		}
		if packet.Sequence != nextSequenceAck {
			return nil, sdkerrors.Wrapf(ErrPacketSequenceOutOfOrder,
				"packet sequence %d, next acknowledgement sequence %d", packet.Sequence, nextSequenceAck)
		}
	}

	return &AcknowledgePacketResult{Packet: packet, Ordering: channel.Ordering}, nil
}

// AcknowledgePacketExecute clears the packet commitment, completing the
// packet lifecycle on the sender.
func (k Keeper) AcknowledgePacketExecute(w state.Writer, res *AcknowledgePacketResult) ([]types.Event, error) {
	packet := res.Packet
	if !res.NoOp {
		if err := k.DeletePacketCommitment(w, packet.SourcePort, packet.SourceChannel, packet.Sequence); err != nil {
			return nil, err
		}
		if res.Ordering == types.ORDERED {
			if err := k.SetNextSequenceAck(w, packet.SourcePort, packet.SourceChannel, packet.Sequence+1); err != nil {
				return nil, err
			}
		}
	}

	k.log.Debug("packet acknowledged",
		zap.String("src_channel", packet.SourceChannel),
		zap.Uint64("sequence", packet.Sequence),
		zap.Bool("no_op", res.NoOp),
	)

	event := packetEvent(EventTypeAcknowledgePacket, packet)
	event.Attributes = append(event.Attributes,
		types.NewAttribute(AttributeKeyChannelOrdering, res.Ordering.String()))
	return []types.Event{event}, nil
}

func packetEvent(eventType string, packet Packet) types.Event {
	return types.NewEvent(eventType,
		types.NewAttribute(AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		types.NewAttribute(AttributeKeySrcPort, packet.SourcePort),
		types.NewAttribute(AttributeKeySrcChannel, packet.SourceChannel),
		types.NewAttribute(AttributeKeyDstPort, packet.DestinationPort),
		types.NewAttribute(AttributeKeyDstChannel, packet.DestinationChannel),
		types.NewAttribute(AttributeKeyTimeoutHeight, packet.TimeoutHeight.String()),
		types.NewAttribute(AttributeKeyTimeoutTimestamp, fmt.Sprintf("%d", packet.TimeoutTimestamp)),
		types.NewAttribute(AttributeKeyDataHex, hex.EncodeToString(packet.Data)),
	)
}
