package host

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/ibc-engine/engine/types"
)

// The counterparty verifies proofs against these exact byte strings, so the
// expected values here are spelled out rather than rebuilt with Sprintf.
func TestStorePaths(t *testing.T) {
	height := types.NewHeight(1, 20)

	require.Equal(t, "clients/07-tendermint-0/clientState", FullClientStatePath("07-tendermint-0"))
	require.Equal(t, "clients/07-tendermint-0/consensusStates/1-20", FullConsensusStatePath("07-tendermint-0", height))
	require.Equal(t, "clients/07-tendermint-0/processedTimes/1-20", ProcessedTimePath("07-tendermint-0", height))
	require.Equal(t, "clients/07-tendermint-0/processedHeights/1-20", ProcessedHeightPath("07-tendermint-0", height))

	require.Equal(t, "connections/connection-0", ConnectionPath("connection-0"))
	require.Equal(t, "channelEnds/ports/transfer/channels/channel-0", ChannelPath("transfer", "channel-0"))

	require.Equal(t, "commitments/ports/transfer/channels/channel-0/sequences/5", PacketCommitmentPath("transfer", "channel-0", 5))
	require.Equal(t, "receipts/ports/transfer/channels/channel-0/sequences/5", PacketReceiptPath("transfer", "channel-0", 5))
	require.Equal(t, "acks/ports/transfer/channels/channel-0/sequences/5", PacketAcknowledgementPath("transfer", "channel-0", 5))

	require.Equal(t, "nextSequenceSend/ports/transfer/channels/channel-0", NextSequenceSendPath("transfer", "channel-0"))
	require.Equal(t, "nextSequenceRecv/ports/transfer/channels/channel-0", NextSequenceRecvPath("transfer", "channel-0"))
	require.Equal(t, "nextSequenceAck/ports/transfer/channels/channel-0", NextSequenceAckPath("transfer", "channel-0"))

	require.Equal(t, "nextClientSequence", KeyNextClientSequence)
	require.Equal(t, "nextConnectionSequence", KeyNextConnectionSequence)
	require.Equal(t, "nextChannelSequence", KeyNextChannelSequence)
}
