package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/ibc-engine/engine/channel"
	"github.com/cosmos/ibc-engine/engine/types"
	"github.com/cosmos/ibc-engine/internal/enginetest"
)

type bogusMsg struct{}

func (bogusMsg) Route() string        { return "bogus" }
func (bogusMsg) Type() string         { return "bogus" }
func (bogusMsg) ValidateBasic() error { return nil }

func TestDeliverUnknownMessage(t *testing.T) {
	coord := enginetest.NewCoordinator(t)

	_, err := coord.ChainA.Deliver(nil)
	require.ErrorIs(t, err, types.ErrUnknownMessage)

	_, err = coord.ChainA.Deliver(bogusMsg{})
	require.ErrorIs(t, err, types.ErrUnknownMessage)
}

func TestRegisterAppDuplicatePort(t *testing.T) {
	coord := enginetest.NewCoordinator(t)

	err := coord.ChainA.Engine.RegisterApp(enginetest.MockPort, enginetest.NewMockApp())
	require.ErrorIs(t, err, types.ErrUnboundPort)
}

func TestDeliverAtomicity(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	packet := path.EndpointA.SendPacket([]byte("ping"), types.NewHeight(0, 1000), 0)

	// a rejected delivery must leave no trace: corrupt the proof and check
	// that neither the receipt nor the acknowledgement was written
	coord.ChainA.NextBlock()
	path.EndpointB.UpdateClient()
	_, err := coord.ChainB.Deliver(&channel.MsgRecvPacket{
		Packet:          packet,
		ProofCommitment: []byte("not a proof"),
		ProofHeight:     coord.ChainA.CurrentHeight(),
	})
	require.Error(t, err)

	has, err := coord.ChainB.Engine.ChannelKeeper().HasPacketReceipt(
		coord.ChainB.Engine.State(), packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	require.NoError(t, err)
	require.False(t, has)
	require.Empty(t, coord.ChainB.App.Received)

	// the same packet still delivers once a valid proof is supplied
	_, err = path.EndpointB.RecvPacket(packet)
	require.NoError(t, err)
	require.Len(t, coord.ChainB.App.Received, 1)
}

func TestAsyncAcknowledgement(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	coord.ChainB.App.AsyncAck = true

	packet := path.EndpointA.SendPacket([]byte("ping"), types.NewHeight(0, 1000), 0)
	_, err := path.EndpointB.RecvPacket(packet)
	require.NoError(t, err)
	require.Len(t, coord.ChainB.App.Received, 1)

	// the application deferred its acknowledgement, so none is committed yet
	has, err := coord.ChainB.Engine.ChannelKeeper().HasPacketAcknowledgement(
		coord.ChainB.Engine.State(), packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	require.NoError(t, err)
	require.False(t, has)

	ack := []byte("deferred ack")
	_, err = coord.ChainB.Engine.WriteAcknowledgement(packet, ack)
	require.NoError(t, err)

	// acknowledgements are write-once
	_, err = coord.ChainB.Engine.WriteAcknowledgement(packet, ack)
	require.ErrorIs(t, err, channel.ErrAcknowledgementExists)

	_, err = path.EndpointA.AcknowledgePacket(packet, ack)
	require.NoError(t, err)
	require.Len(t, coord.ChainA.App.Acknowledged, 1)
}

func TestSendPacketUnboundPort(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	_, _, err := coord.ChainA.Engine.SendPacket(
		"unboundport", path.EndpointA.ChannelID, types.NewHeight(0, 1000), 0, []byte("data"))
	require.ErrorIs(t, err, types.ErrUnboundPort)
}
