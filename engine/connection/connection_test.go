package connection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/connection"
	"github.com/cosmos/ibc-engine/engine/lightclients/mock"
	"github.com/cosmos/ibc-engine/engine/types"
	"github.com/cosmos/ibc-engine/internal/enginetest"
)

func connectionState(t *testing.T, chain *enginetest.Chain, connectionID string) connection.State {
	t.Helper()
	end, err := chain.Engine.ConnectionKeeper().GetConnection(chain.Engine.State(), connectionID)
	require.NoError(t, err)
	return end.State
}

func TestConnectionHandshake(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.SetupClients(path)

	path.EndpointA.ConnOpenInit()
	require.Equal(t, "connection-0", path.EndpointA.ConnectionID)
	require.Equal(t, connection.INIT, connectionState(t, coord.ChainA, path.EndpointA.ConnectionID))

	path.EndpointB.ConnOpenTry()
	require.Equal(t, "connection-0", path.EndpointB.ConnectionID)
	require.Equal(t, connection.TRYOPEN, connectionState(t, coord.ChainB, path.EndpointB.ConnectionID))

	path.EndpointA.ConnOpenAck()
	require.Equal(t, connection.OPEN, connectionState(t, coord.ChainA, path.EndpointA.ConnectionID))

	path.EndpointB.ConnOpenConfirm()
	require.Equal(t, connection.OPEN, connectionState(t, coord.ChainB, path.EndpointB.ConnectionID))

	// both ends agree on the negotiated version and counterparty
	endA, err := coord.ChainA.Engine.ConnectionKeeper().GetConnection(coord.ChainA.Engine.State(), path.EndpointA.ConnectionID)
	require.NoError(t, err)
	endB, err := coord.ChainB.Engine.ConnectionKeeper().GetConnection(coord.ChainB.Engine.State(), path.EndpointB.ConnectionID)
	require.NoError(t, err)

	require.Len(t, endA.Versions, 1)
	require.Equal(t, endA.Versions, endB.Versions)
	require.Equal(t, path.EndpointB.ConnectionID, endA.Counterparty.ConnectionID)
	require.Equal(t, path.EndpointA.ConnectionID, endB.Counterparty.ConnectionID)
}

func TestConnOpenInitUnknownClient(t *testing.T) {
	coord := enginetest.NewCoordinator(t)

	_, err := coord.ChainA.Deliver(&connection.MsgConnectionOpenInit{
		ClientID:     "9999-mock-42",
		Counterparty: connection.NewCounterparty("9999-mock-0", "", enginetest.DefaultPrefix()),
	})
	require.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestConnOpenAckInvalidState(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.SetupClients(path)
	coord.SetupConnections(path)

	// the connection is already OPEN; a second ack must be rejected on the
	// state check before any proof is inspected
	_, err := coord.ChainA.Deliver(&connection.MsgConnectionOpenAck{
		ConnectionID:             path.EndpointA.ConnectionID,
		CounterpartyConnectionID: path.EndpointB.ConnectionID,
		Version:                  connection.DefaultIBCVersion,
		ClientState:              mock.NewClientState(coord.ChainA.ChainID, coord.ChainA.CurrentHeight()),
		ProofHeight:              coord.ChainB.CurrentHeight(),
		ProofTry:                 []byte("proof try"),
		ProofClient:              []byte("proof client"),
		ProofConsensus:           []byte("proof consensus"),
		ConsensusHeight:          coord.ChainA.CurrentHeight(),
	})
	require.ErrorIs(t, err, connection.ErrInvalidConnectionState)
}

func TestConnOpenConfirmInvalidState(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.SetupClients(path)

	// endpoint A is in INIT, not TRYOPEN; confirm must be rejected
	path.EndpointA.ConnOpenInit()
	path.EndpointB.ConnOpenTry()

	_, err := coord.ChainA.Deliver(&connection.MsgConnectionOpenConfirm{
		ConnectionID: path.EndpointA.ConnectionID,
		ProofAck:     []byte("proof ack"),
		ProofHeight:  coord.ChainB.CurrentHeight(),
	})
	require.ErrorIs(t, err, connection.ErrInvalidConnectionState)
}

func TestConnOpenTryUnprovenInit(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	coord.SetupClients(path)

	// no init happened on chain A; its store holds no connection end, so the
	// queried proof is an absence proof and cannot verify an INIT end
	coord.ChainA.NextBlock()
	path.EndpointB.UpdateClient()

	proofInit, proofHeight := coord.ChainA.QueryProof("connections/connection-0")
	clientState, err := coord.ChainB.Engine.ClientKeeper().GetClientState(coord.ChainB.Engine.State(), path.EndpointB.ClientID)
	require.NoError(t, err)

	_, err = coord.ChainB.Deliver(&connection.MsgConnectionOpenTry{
		ClientID:             path.EndpointB.ClientID,
		Counterparty:         connection.NewCounterparty(path.EndpointA.ClientID, "connection-0", enginetest.DefaultPrefix()),
		ClientState:          clientState,
		CounterpartyVersions: connection.GetCompatibleVersions(),
		ProofHeight:          proofHeight,
		ProofInit:            proofInit,
		ProofClient:          []byte("proof client"),
		ProofConsensus:       []byte("proof consensus"),
		ConsensusHeight:      types.NewHeight(0, 1),
	})
	require.Error(t, err)
	hasConn, err := coord.ChainB.Engine.ConnectionKeeper().HasConnection(coord.ChainB.Engine.State(), "connection-0")
	require.NoError(t, err)
	require.False(t, hasConn)
}

func TestConnectionDelayPeriodStored(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.EndpointA.DelayPeriod = uint64(10)
	coord.SetupClients(path)

	path.EndpointA.ConnOpenInit()

	end, err := coord.ChainA.Engine.ConnectionKeeper().GetConnection(coord.ChainA.Engine.State(), path.EndpointA.ConnectionID)
	require.NoError(t, err)
	require.Equal(t, uint64(10), end.DelayPeriod)
}
