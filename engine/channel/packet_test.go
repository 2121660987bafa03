package channel_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/ibc-engine/engine/channel"
	"github.com/cosmos/ibc-engine/engine/types"
	"github.com/cosmos/ibc-engine/internal/enginetest"
)

var defaultTimeoutHeight = types.NewHeight(0, 1000)

func packetCommitment(t *testing.T, chain *enginetest.Chain, packet channel.Packet) []byte {
	t.Helper()
	bz, err := chain.Engine.ChannelKeeper().GetPacketCommitment(
		chain.Engine.State(), packet.SourcePort, packet.SourceChannel, packet.Sequence)
	require.NoError(t, err)
	return bz
}

func TestPacketLifecycle(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	packet := path.EndpointA.SendPacket([]byte("ping"), defaultTimeoutHeight, 0)
	require.Equal(t, uint64(1), packet.Sequence)
	require.Equal(t, channel.CommitPacket(packet), packetCommitment(t, coord.ChainA, packet))

	// the send sequence advanced
	seq, err := coord.ChainA.Engine.ChannelKeeper().GetNextSequenceSend(
		coord.ChainA.Engine.State(), path.EndpointA.PortID, path.EndpointA.ChannelID)
	require.NoError(t, err)
	require.Equal(t, uint64(2), seq)

	_, err = path.EndpointB.RecvPacket(packet)
	require.NoError(t, err)
	require.Len(t, coord.ChainB.App.Received, 1)
	require.Equal(t, []byte("ping"), coord.ChainB.App.Received[0].Data)

	// the receipt and acknowledgement commitment are stored on the receiver
	has, err := coord.ChainB.Engine.ChannelKeeper().HasPacketReceipt(
		coord.ChainB.Engine.State(), packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	require.NoError(t, err)
	require.True(t, has)
	ackCommitment, err := coord.ChainB.Engine.ChannelKeeper().GetPacketAcknowledgement(
		coord.ChainB.Engine.State(), packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	require.NoError(t, err)
	require.Equal(t, channel.CommitAcknowledgement(enginetest.DefaultAck), ackCommitment)

	_, err = path.EndpointA.AcknowledgePacket(packet, enginetest.DefaultAck)
	require.NoError(t, err)
	require.Len(t, coord.ChainA.App.Acknowledged, 1)

	// acknowledging clears the commitment, completing the lifecycle
	require.Nil(t, packetCommitment(t, coord.ChainA, packet))
}

func TestPacketEventDataHex(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	data := []byte("ping")
	_, events, err := coord.ChainA.Engine.SendPacket(
		path.EndpointA.PortID, path.EndpointA.ChannelID, defaultTimeoutHeight, 0, data)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, channel.EventTypeSendPacket, events[0].Type)

	// relayers reconstruct the packet from the event alone, so the data
	// must ride along in hex
	dataHex, ok := events[0].GetAttribute(channel.AttributeKeyDataHex)
	require.True(t, ok)
	require.Equal(t, hex.EncodeToString(data), dataHex)

	packet := channel.Packet{}
	for _, p := range []struct {
		key string
		dst *string
	}{
		{channel.AttributeKeySrcPort, &packet.SourcePort},
		{channel.AttributeKeySrcChannel, &packet.SourceChannel},
		{channel.AttributeKeyDstPort, &packet.DestinationPort},
		{channel.AttributeKeyDstChannel, &packet.DestinationChannel},
	} {
		value, ok := events[0].GetAttribute(p.key)
		require.True(t, ok, p.key)
		*p.dst = value
	}
	require.Equal(t, path.EndpointA.ChannelID, packet.SourceChannel)
	require.Equal(t, path.EndpointB.ChannelID, packet.DestinationChannel)

	sent := channel.NewPacket(data, 1,
		packet.SourcePort, packet.SourceChannel,
		packet.DestinationPort, packet.DestinationChannel,
		defaultTimeoutHeight, 0)
	res, err := path.EndpointB.RecvPacket(sent)
	require.NoError(t, err)

	recvDataHex, ok := res.Events[0].GetAttribute(channel.AttributeKeyDataHex)
	require.True(t, ok)
	require.Equal(t, hex.EncodeToString(data), recvDataHex)
}

func TestRecvPacketDuplicateUnordered(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	packet := path.EndpointA.SendPacket([]byte("ping"), defaultTimeoutHeight, 0)

	_, err := path.EndpointB.RecvPacket(packet)
	require.NoError(t, err)

	// redelivery is a no-op: no error, and the application is not invoked
	// a second time
	_, err = path.EndpointB.RecvPacket(packet)
	require.NoError(t, err)
	require.Len(t, coord.ChainB.App.Received, 1)
}

func TestRecvPacketOrdered(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.SetOrder(types.ORDERED)
	coord.Setup(path)

	first := path.EndpointA.SendPacket([]byte("first"), defaultTimeoutHeight, 0)
	second := path.EndpointA.SendPacket([]byte("second"), defaultTimeoutHeight, 0)
	require.Equal(t, uint64(2), second.Sequence)

	// receiving ahead of the expected sequence is rejected
	_, err := path.EndpointB.RecvPacket(second)
	require.ErrorIs(t, err, channel.ErrPacketSequenceOutOfOrder)

	_, err = path.EndpointB.RecvPacket(first)
	require.NoError(t, err)
	_, err = path.EndpointB.RecvPacket(second)
	require.NoError(t, err)

	// the receive sequence advanced past both packets
	seq, err := coord.ChainB.Engine.ChannelKeeper().GetNextSequenceRecv(
		coord.ChainB.Engine.State(), path.EndpointB.PortID, path.EndpointB.ChannelID)
	require.NoError(t, err)
	require.Equal(t, uint64(3), seq)

	// a stale redelivery below the receive sequence is a no-op
	_, err = path.EndpointB.RecvPacket(first)
	require.NoError(t, err)
	require.Len(t, coord.ChainB.App.Received, 2)
}

func TestSendPacketBornDead(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	// the timeout height already passed on the counterparty as tracked by
	// the sender's client
	_, _, err := coord.ChainA.Engine.SendPacket(
		path.EndpointA.PortID, path.EndpointA.ChannelID, types.NewHeight(0, 1), 0, []byte("dead"))
	require.ErrorIs(t, err, channel.ErrPacketTimeout)
}

func TestRecvPacketAfterTimeoutElapsed(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	timeoutHeight := types.NewHeight(0, coord.ChainB.CurrentHeight().RevisionHeight+2)
	packet := path.EndpointA.SendPacket([]byte("late"), timeoutHeight, 0)

	coord.ChainB.AdvanceTo(timeoutHeight.RevisionHeight)

	_, err := path.EndpointB.RecvPacket(packet)
	require.ErrorIs(t, err, channel.ErrPacketTimeout)
}

func TestTimeoutPacketUnordered(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	timeoutHeight := types.NewHeight(0, coord.ChainB.CurrentHeight().RevisionHeight+2)
	packet := path.EndpointA.SendPacket([]byte("doomed"), timeoutHeight, 0)

	// timing out before the deadline is rejected
	_, err := path.EndpointA.TimeoutPacket(packet)
	require.ErrorIs(t, err, channel.ErrTimeoutNotReached)

	coord.ChainB.AdvanceTo(timeoutHeight.RevisionHeight + 1)

	_, err = path.EndpointA.TimeoutPacket(packet)
	require.NoError(t, err)
	require.Len(t, coord.ChainA.App.TimedOut, 1)
	require.Nil(t, packetCommitment(t, coord.ChainA, packet))

	// the unordered channel stays open
	require.Equal(t, channel.OPEN, channelEnd(t, coord.ChainA, path.EndpointA.PortID, path.EndpointA.ChannelID).State)

	// acknowledgement and timeout are mutually exclusive: after the timeout
	// voided the commitment, a late acknowledgement is a no-op
	_, err = path.EndpointA.AcknowledgePacket(packet, enginetest.DefaultAck)
	require.NoError(t, err)
	require.Empty(t, coord.ChainA.App.Acknowledged)
}

func TestTimeoutPacketOrderedClosesChannel(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.SetOrder(types.ORDERED)
	coord.Setup(path)

	timeoutHeight := types.NewHeight(0, coord.ChainB.CurrentHeight().RevisionHeight+2)
	packet := path.EndpointA.SendPacket([]byte("doomed"), timeoutHeight, 0)

	coord.ChainB.AdvanceTo(timeoutHeight.RevisionHeight + 1)

	res, err := path.EndpointA.TimeoutPacket(packet)
	require.NoError(t, err)
	require.Nil(t, packetCommitment(t, coord.ChainA, packet))

	// an ordered channel cannot survive a gap in the sequence stream
	require.Equal(t, channel.CLOSED, channelEnd(t, coord.ChainA, path.EndpointA.PortID, path.EndpointA.ChannelID).State)

	found := false
	for _, event := range res.Events {
		if event.Type == channel.EventTypeChannelClosed {
			found = true
		}
	}
	require.True(t, found, "expected %s event", channel.EventTypeChannelClosed)
}

func TestTimeoutOnClose(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	// the timeout itself is far away; only the closure voids the packet
	packet := path.EndpointA.SendPacket([]byte("stranded"), defaultTimeoutHeight, 0)

	path.EndpointB.ChanCloseInit()

	_, err := path.EndpointA.TimeoutPacketOnClose(packet)
	require.NoError(t, err)
	require.Len(t, coord.ChainA.App.TimedOut, 1)
	require.Nil(t, packetCommitment(t, coord.ChainA, packet))
}

func TestAcknowledgeWrongAck(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	packet := path.EndpointA.SendPacket([]byte("ping"), defaultTimeoutHeight, 0)
	_, err := path.EndpointB.RecvPacket(packet)
	require.NoError(t, err)

	// the relayed acknowledgement must match the committed one
	_, err = path.EndpointA.AcknowledgePacket(packet, []byte("forged ack"))
	require.Error(t, err)
	require.NotNil(t, packetCommitment(t, coord.ChainA, packet))
}
