package channel

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/connection"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Keeper manages channel ends, per-channel sequence counters and the packet
// commitment, receipt and acknowledgement stores.
type Keeper struct {
	cdc              *types.Codec
	connectionKeeper connection.Keeper
	log              *zap.Logger

	// ports bound by application modules; channels only open on bound ports
	ports map[string]struct{}

	hostHeight func() types.Height
	hostTime   func() uint64
}

// NewKeeper constructs a channel keeper.
func NewKeeper(cdc *types.Codec, connectionKeeper connection.Keeper, hostHeight func() types.Height, hostTime func() uint64, log *zap.Logger) Keeper {
	return Keeper{
		cdc:              cdc,
		connectionKeeper: connectionKeeper,
		log:              log,
		ports:            make(map[string]struct{}),
		hostHeight:       hostHeight,
		hostTime:         hostTime,
	}
}

// BindPort registers a port as owned by an application module.
func (k Keeper) BindPort(portID string) error {
	if err := host.PortIdentifierValidator(portID); err != nil {
		return err
	}
	k.ports[portID] = struct{}{}
	return nil
}

// IsBound reports whether a port has been bound.
func (k Keeper) IsBound(portID string) bool {
	_, ok := k.ports[portID]
	return ok
}

// GetChannel returns the stored channel end.
func (k Keeper) GetChannel(r state.Reader, portID, channelID string) (ChannelEnd, error) {
	bz, err := r.Get(host.ChannelPath(portID, channelID))
	if err != nil {
		return ChannelEnd{}, err
	}
	if bz == nil {
		return ChannelEnd{}, sdkerrors.Wrapf(ErrChannelNotFound, "port %s, channel %s", portID, channelID)
	}
	var channel ChannelEnd
	if err := k.cdc.UnmarshalBinaryBare(bz, &channel); err != nil {
		return ChannelEnd{}, sdkerrors.Wrapf(ErrChannelNotFound, "could not decode channel %s/%s: %v", portID, channelID, err)
	}
	return channel, nil
}

// SetChannel stores a channel end.
func (k Keeper) SetChannel(w state.Writer, portID, channelID string, channel ChannelEnd) error {
	bz, err := k.cdc.MarshalBinaryBare(channel)
	if err != nil {
		return err
	}
	return w.Set(host.ChannelPath(portID, channelID), bz)
}

// HasChannel reports whether a channel exists.
func (k Keeper) HasChannel(r state.Reader, portID, channelID string) (bool, error) {
	return r.Has(host.ChannelPath(portID, channelID))
}

// GetNextChannelSequence returns the counter used to allocate channel ids.
func (k Keeper) GetNextChannelSequence(r state.Reader) (uint64, error) {
	bz, err := r.Get(host.KeyNextChannelSequence)
	if err != nil {
		return 0, err
	}
	if bz == nil {
		return 0, nil
	}
	return sdk.BigEndianToUint64(bz), nil
}

// SetNextChannelSequence stores the channel id allocation counter.
func (k Keeper) SetNextChannelSequence(w state.Writer, sequence uint64) error {
	return w.Set(host.KeyNextChannelSequence, sdk.Uint64ToBigEndian(sequence))
}

// GetNextSequenceSend returns the channel's send sequence counter.
func (k Keeper) GetNextSequenceSend(r state.Reader, portID, channelID string) (uint64, error) {
	return k.getSequence(r, host.NextSequenceSendPath(portID, channelID), ErrSequenceSendNotFound, portID, channelID)
}

// SetNextSequenceSend stores the channel's send sequence counter.
func (k Keeper) SetNextSequenceSend(w state.Writer, portID, channelID string, sequence uint64) error {
	return w.Set(host.NextSequenceSendPath(portID, channelID), sdk.Uint64ToBigEndian(sequence))
}

// GetNextSequenceRecv returns the channel's receive sequence counter.
func (k Keeper) GetNextSequenceRecv(r state.Reader, portID, channelID string) (uint64, error) {
	return k.getSequence(r, host.NextSequenceRecvPath(portID, channelID), ErrSequenceReceiveNotFound, portID, channelID)
}

// SetNextSequenceRecv stores the channel's receive sequence counter.
func (k Keeper) SetNextSequenceRecv(w state.Writer, portID, channelID string, sequence uint64) error {
	return w.Set(host.NextSequenceRecvPath(portID, channelID), sdk.Uint64ToBigEndian(sequence))
}

// GetNextSequenceAck returns the channel's acknowledgement sequence counter.
func (k Keeper) GetNextSequenceAck(r state.Reader, portID, channelID string) (uint64, error) {
	return k.getSequence(r, host.NextSequenceAckPath(portID, channelID), ErrSequenceAckNotFound, portID, channelID)
}

// SetNextSequenceAck stores the channel's acknowledgement sequence counter.
func (k Keeper) SetNextSequenceAck(w state.Writer, portID, channelID string, sequence uint64) error {
	return w.Set(host.NextSequenceAckPath(portID, channelID), sdk.Uint64ToBigEndian(sequence))
}

func (k Keeper) getSequence(r state.Reader, path string, notFound error, portID, channelID string) (uint64, error) {
	bz, err := r.Get(path)
	if err != nil {
		return 0, err
	}
	if bz == nil {
		return 0, sdkerrors.Wrapf(notFound, "port %s, channel %s", portID, channelID)
	}
	return sdk.BigEndianToUint64(bz), nil
}

// GetPacketCommitment returns the stored commitment of a sent packet, or nil
// if none exists.
func (k Keeper) GetPacketCommitment(r state.Reader, portID, channelID string, sequence uint64) ([]byte, error) {
	return r.Get(host.PacketCommitmentPath(portID, channelID, sequence))
}

// SetPacketCommitment stores the commitment of a sent packet.
func (k Keeper) SetPacketCommitment(w state.Writer, portID, channelID string, sequence uint64, commitment []byte) error {
	return w.Set(host.PacketCommitmentPath(portID, channelID, sequence), commitment)
}

// DeletePacketCommitment removes a packet commitment once the packet is
// acknowledged or timed out.
func (k Keeper) DeletePacketCommitment(w state.Writer, portID, channelID string, sequence uint64) error {
	return w.Delete(host.PacketCommitmentPath(portID, channelID, sequence))
}

// HasPacketReceipt reports whether a packet has been received on an
// unordered channel.
func (k Keeper) HasPacketReceipt(r state.Reader, portID, channelID string, sequence uint64) (bool, error) {
	return r.Has(host.PacketReceiptPath(portID, channelID, sequence))
}

// SetPacketReceipt marks a packet received on an unordered channel.
func (k Keeper) SetPacketReceipt(w state.Writer, portID, channelID string, sequence uint64) error {
	return w.Set(host.PacketReceiptPath(portID, channelID, sequence), []byte{1})
}

// GetPacketAcknowledgement returns the stored acknowledgement commitment, or
// nil if none exists.
func (k Keeper) GetPacketAcknowledgement(r state.Reader, portID, channelID string, sequence uint64) ([]byte, error) {
	return r.Get(host.PacketAcknowledgementPath(portID, channelID, sequence))
}

// SetPacketAcknowledgement stores an acknowledgement commitment.
func (k Keeper) SetPacketAcknowledgement(w state.Writer, portID, channelID string, sequence uint64, ackCommitment []byte) error {
	return w.Set(host.PacketAcknowledgementPath(portID, channelID, sequence), ackCommitment)
}

// HasPacketAcknowledgement reports whether an acknowledgement has been
// written for the sequence.
func (k Keeper) HasPacketAcknowledgement(r state.Reader, portID, channelID string, sequence uint64) (bool, error) {
	return r.Has(host.PacketAcknowledgementPath(portID, channelID, sequence))
}

// openChannelConnection resolves the channel's connection and requires both
// to be OPEN.
func (k Keeper) openChannelConnection(r state.Reader, portID, channelID string) (ChannelEnd, connection.ConnectionEnd, error) {
	channel, err := k.GetChannel(r, portID, channelID)
	if err != nil {
		return ChannelEnd{}, connection.ConnectionEnd{}, err
	}
	if channel.State != OPEN {
		return ChannelEnd{}, connection.ConnectionEnd{}, sdkerrors.Wrapf(ErrInvalidChannelState,
			"channel %s/%s state is %s, expected %s", portID, channelID, channel.State, OPEN)
	}
	conn, err := k.connectionKeeper.OpenConnection(r, channel.ConnectionID())
	if err != nil {
		return ChannelEnd{}, connection.ConnectionEnd{}, err
	}
	return channel, conn, nil
}
