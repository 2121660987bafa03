package host

import (
	"fmt"

	"github.com/cosmos/ibc-engine/engine/types"
)

// Global counter keys.
const (
	KeyNextClientSequence     = "nextClientSequence"
	KeyNextConnectionSequence = "nextConnectionSequence"
	KeyNextChannelSequence    = "nextChannelSequence"
)

// FullClientStatePath returns the store path for the client state of the
// given client.
func FullClientStatePath(clientID string) string {
	return fmt.Sprintf("clients/%s/clientState", clientID)
}

// FullConsensusStatePath returns the store path for the consensus state of
// the given client at the given height.
func FullConsensusStatePath(clientID string, height types.Height) string {
	return fmt.Sprintf("clients/%s/consensusStates/%s", clientID, height)
}

// ProcessedTimePath returns the store path for the host timestamp recorded
// when the consensus state at the given height was stored. Consumed by the
// connection delay period check.
func ProcessedTimePath(clientID string, height types.Height) string {
	return fmt.Sprintf("clients/%s/processedTimes/%s", clientID, height)
}

// ProcessedHeightPath returns the store path for the host height recorded
// when the consensus state at the given height was stored.
func ProcessedHeightPath(clientID string, height types.Height) string {
	return fmt.Sprintf("clients/%s/processedHeights/%s", clientID, height)
}

// ConnectionPath returns the store path for the given connection end.
func ConnectionPath(connectionID string) string {
	return fmt.Sprintf("connections/%s", connectionID)
}

// ChannelPath returns the store path for the given channel end.
func ChannelPath(portID, channelID string) string {
	return fmt.Sprintf("channelEnds/%s", channelPath(portID, channelID))
}

// PacketCommitmentPath returns the store path for the commitment of the
// packet with the given sequence.
func PacketCommitmentPath(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("commitments/%s/sequences/%d", channelPath(portID, channelID), sequence)
}

// PacketReceiptPath returns the store path for the receipt marker of the
// packet with the given sequence.
func PacketReceiptPath(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("receipts/%s/sequences/%d", channelPath(portID, channelID), sequence)
}

// PacketAcknowledgementPath returns the store path for the acknowledgement
// commitment of the packet with the given sequence.
func PacketAcknowledgementPath(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("acks/%s/sequences/%d", channelPath(portID, channelID), sequence)
}

// NextSequenceSendPath returns the store path for the channel's send
// sequence counter.
func NextSequenceSendPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceSend/%s", channelPath(portID, channelID))
}

// NextSequenceRecvPath returns the store path for the channel's receive
// sequence counter.
func NextSequenceRecvPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceRecv/%s", channelPath(portID, channelID))
}

// NextSequenceAckPath returns the store path for the channel's
// acknowledgement sequence counter.
func NextSequenceAckPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceAck/%s", channelPath(portID, channelID))
}

func channelPath(portID, channelID string) string {
	return fmt.Sprintf("ports/%s/channels/%s", portID, channelID)
}
