package channel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/ibc-engine/engine/channel"
	"github.com/cosmos/ibc-engine/engine/types"
	"github.com/cosmos/ibc-engine/internal/enginetest"
)

func channelEnd(t *testing.T, chain *enginetest.Chain, portID, channelID string) channel.ChannelEnd {
	t.Helper()
	end, err := chain.Engine.ChannelKeeper().GetChannel(chain.Engine.State(), portID, channelID)
	require.NoError(t, err)
	return end
}

func TestChannelHandshake(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.SetupClients(path)
	coord.SetupConnections(path)

	path.EndpointA.ChanOpenInit()
	require.Equal(t, "channel-0", path.EndpointA.ChannelID)
	require.Equal(t, channel.INIT, channelEnd(t, coord.ChainA, path.EndpointA.PortID, path.EndpointA.ChannelID).State)

	path.EndpointB.ChanOpenTry()
	require.Equal(t, "channel-0", path.EndpointB.ChannelID)
	require.Equal(t, channel.TRYOPEN, channelEnd(t, coord.ChainB, path.EndpointB.PortID, path.EndpointB.ChannelID).State)

	path.EndpointA.ChanOpenAck()
	require.Equal(t, channel.OPEN, channelEnd(t, coord.ChainA, path.EndpointA.PortID, path.EndpointA.ChannelID).State)

	path.EndpointB.ChanOpenConfirm()
	require.Equal(t, channel.OPEN, channelEnd(t, coord.ChainB, path.EndpointB.PortID, path.EndpointB.ChannelID).State)

	endA := channelEnd(t, coord.ChainA, path.EndpointA.PortID, path.EndpointA.ChannelID)
	require.Equal(t, path.EndpointB.ChannelID, endA.Counterparty.ChannelID)
	require.Equal(t, path.EndpointB.PortID, endA.Counterparty.PortID)
	require.Equal(t, path.EndpointA.Version, endA.Version)

	// send/recv/ack sequences all start at 1
	for _, chain := range []*enginetest.Chain{coord.ChainA, coord.ChainB} {
		seq, err := chain.Engine.ChannelKeeper().GetNextSequenceSend(chain.Engine.State(), enginetest.MockPort, "channel-0")
		require.NoError(t, err)
		require.Equal(t, uint64(1), seq)
		seq, err = chain.Engine.ChannelKeeper().GetNextSequenceRecv(chain.Engine.State(), enginetest.MockPort, "channel-0")
		require.NoError(t, err)
		require.Equal(t, uint64(1), seq)
		seq, err = chain.Engine.ChannelKeeper().GetNextSequenceAck(chain.Engine.State(), enginetest.MockPort, "channel-0")
		require.NoError(t, err)
		require.Equal(t, uint64(1), seq)
	}
}

func TestChanOpenInitRejections(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.SetupClients(path)
	coord.SetupConnections(path)

	testCases := []struct {
		name   string
		msg    *channel.MsgChannelOpenInit
		expErr error
	}{
		{
			"unknown connection",
			&channel.MsgChannelOpenInit{
				PortID: enginetest.MockPort,
				Channel: channel.NewChannelEnd(
					channel.INIT, types.UNORDERED,
					channel.NewCounterparty(enginetest.MockPort, ""),
					[]string{"connection-42"}, "mock-1",
				),
			},
			nil,
		},
		{
			"unbound port",
			&channel.MsgChannelOpenInit{
				PortID: "unboundport",
				Channel: channel.NewChannelEnd(
					channel.INIT, types.UNORDERED,
					channel.NewCounterparty(enginetest.MockPort, ""),
					[]string{path.EndpointA.ConnectionID}, "mock-1",
				),
			},
			nil,
		},
		{
			"state must be INIT",
			&channel.MsgChannelOpenInit{
				PortID: enginetest.MockPort,
				Channel: channel.NewChannelEnd(
					channel.OPEN, types.UNORDERED,
					channel.NewCounterparty(enginetest.MockPort, ""),
					[]string{path.EndpointA.ConnectionID}, "mock-1",
				),
			},
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.ChainA.Deliver(tc.msg)
			require.Error(t, err)
		})
	}
}

func TestChannelClose(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.Setup(path)

	path.EndpointA.ChanCloseInit()
	require.Equal(t, channel.CLOSED, channelEnd(t, coord.ChainA, path.EndpointA.PortID, path.EndpointA.ChannelID).State)

	path.EndpointB.ChanCloseConfirm()
	require.Equal(t, channel.CLOSED, channelEnd(t, coord.ChainB, path.EndpointB.PortID, path.EndpointB.ChannelID).State)

	// CLOSED is terminal: a second close init is rejected
	_, err := coord.ChainA.Deliver(&channel.MsgChannelCloseInit{
		PortID:    path.EndpointA.PortID,
		ChannelID: path.EndpointA.ChannelID,
	})
	require.ErrorIs(t, err, channel.ErrInvalidChannelState)

	// and no further packets can be sent
	_, _, err = coord.ChainA.Engine.SendPacket(
		path.EndpointA.PortID, path.EndpointA.ChannelID, types.NewHeight(0, 1000), 0, []byte("data"))
	require.ErrorIs(t, err, channel.ErrInvalidChannelState)
}
