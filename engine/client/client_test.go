package client_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/lightclients/mock"
	"github.com/cosmos/ibc-engine/engine/types"
	"github.com/cosmos/ibc-engine/internal/enginetest"
)

func TestCreateClient(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)

	path.EndpointA.CreateClient()
	require.Equal(t, "9999-mock-0", path.EndpointA.ClientID)

	status, err := coord.ChainA.Engine.ClientStatus(path.EndpointA.ClientID)
	require.NoError(t, err)
	require.Equal(t, exported.Active, status)

	// identifiers are allocated sequentially per chain
	second := enginetest.NewPath(coord.ChainA, coord.ChainB)
	second.EndpointA.CreateClient()
	require.Equal(t, "9999-mock-1", second.EndpointA.ClientID)
}

func TestCreateClientRejections(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	chainB := coord.ChainB

	testCases := []struct {
		name   string
		msg    *client.MsgCreateClient
		expErr error
	}{
		{
			"frozen client state",
			&client.MsgCreateClient{
				ClientState: mock.ClientState{
					ChainID:      chainB.ChainID,
					LatestHeight: chainB.CurrentHeight(),
					FrozenHeight: types.NewHeight(0, 1),
				},
				ConsensusState: chainB.ConsensusStateAt(chainB.CurrentHeight()),
			},
			client.ErrInvalidClientType,
		},
		{
			"zero latest height",
			&client.MsgCreateClient{
				ClientState:    mock.ClientState{ChainID: chainB.ChainID},
				ConsensusState: chainB.ConsensusStateAt(chainB.CurrentHeight()),
			},
			types.ErrInvalidHeight,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.ChainA.Deliver(tc.msg)
			require.ErrorIs(t, err, tc.expErr)
		})
	}
}

func TestUpdateClient(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.EndpointA.CreateClient()

	createdHeight := coord.ChainB.CurrentHeight()

	coord.ChainB.NextBlock()
	path.EndpointA.UpdateClient()

	cs, err := coord.ChainA.Engine.ClientKeeper().GetClientState(coord.ChainA.Engine.State(), path.EndpointA.ClientID)
	require.NoError(t, err)
	require.Equal(t, coord.ChainB.CurrentHeight(), cs.GetLatestHeight())
	require.True(t, createdHeight.LT(cs.GetLatestHeight()))

	// consensus states for both heights remain stored
	for _, height := range []types.Height{createdHeight, coord.ChainB.CurrentHeight()} {
		_, err = coord.ChainA.Engine.ClientKeeper().GetConsensusState(coord.ChainA.Engine.State(), path.EndpointA.ClientID, height)
		require.NoError(t, err)
	}
}

func TestUpdateClientIdempotent(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.EndpointA.CreateClient()

	coord.ChainB.NextBlock()

	// submitting the identical header twice is a no-op, not an error
	path.EndpointA.UpdateClient()
	path.EndpointA.UpdateClient()

	cs, err := coord.ChainA.Engine.ClientKeeper().GetClientState(coord.ChainA.Engine.State(), path.EndpointA.ClientID)
	require.NoError(t, err)
	require.Equal(t, coord.ChainB.CurrentHeight(), cs.GetLatestHeight())
}

func TestUpdateClientConflictingHeader(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.EndpointA.CreateClient()

	coord.ChainB.NextBlock()
	path.EndpointA.UpdateClient()

	// a header at a stored height with different content must not overwrite
	conflicting := coord.ChainB.LatestHeader()
	conflicting.Root = commitment.NewMerkleRoot(tmhash.Sum([]byte("forged root")))

	_, err := coord.ChainA.Deliver(&client.MsgUpdateClient{
		ClientID: path.EndpointA.ClientID,
		Header:   conflicting,
	})
	require.ErrorIs(t, err, client.ErrHeaderVerification)

	// the stored consensus state is untouched
	consState, err := coord.ChainA.Engine.ClientKeeper().GetConsensusState(
		coord.ChainA.Engine.State(), path.EndpointA.ClientID, coord.ChainB.CurrentHeight())
	require.NoError(t, err)
	require.Equal(t, coord.ChainB.RootAt(coord.ChainB.CurrentHeight()), consState.GetRoot())
}

func TestMisbehaviourFreezesClientPermanently(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.EndpointA.CreateClient()

	height := coord.ChainB.CurrentHeight()
	header1 := coord.ChainB.LatestHeader()
	header2 := header1
	header2.Root = commitment.NewMerkleRoot(tmhash.Sum([]byte("equivocation")))

	res := coord.ChainA.MustDeliver(&client.MsgSubmitMisbehaviour{
		ClientID: path.EndpointA.ClientID,
		Misbehaviour: mock.Misbehaviour{
			ClientID: path.EndpointA.ClientID,
			Header1:  header1,
			Header2:  header2,
		},
	})
	require.Equal(t, client.EventTypeSubmitMisbehaviour, res.Events[0].Type)

	status, err := coord.ChainA.Engine.ClientStatus(path.EndpointA.ClientID)
	require.NoError(t, err)
	require.Equal(t, exported.Frozen, status)

	cs, err := coord.ChainA.Engine.ClientKeeper().GetClientState(coord.ChainA.Engine.State(), path.EndpointA.ClientID)
	require.NoError(t, err)
	require.Equal(t, height, cs.GetFrozenHeight())

	// a frozen client accepts no further updates
	coord.ChainB.NextBlock()
	_, err = coord.ChainA.Deliver(&client.MsgUpdateClient{
		ClientID: path.EndpointA.ClientID,
		Header:   coord.ChainB.LatestHeader(),
	})
	require.ErrorIs(t, err, client.ErrClientFrozen)

	// nor further misbehaviour submissions
	_, err = coord.ChainA.Deliver(&client.MsgSubmitMisbehaviour{
		ClientID: path.EndpointA.ClientID,
		Misbehaviour: mock.Misbehaviour{
			ClientID: path.EndpointA.ClientID,
			Header1:  header1,
			Header2:  header2,
		},
	})
	require.ErrorIs(t, err, client.ErrClientFrozen)
}

func TestSubmitMisbehaviourRejectsMonotonicHeaders(t *testing.T) {
	coord := enginetest.NewCoordinator(t)
	path := enginetest.NewPath(coord.ChainA, coord.ChainB)
	path.EndpointA.CreateClient()

	older := coord.ChainB.LatestHeader()
	coord.ChainB.NextBlock()
	newer := coord.ChainB.LatestHeader()

	// time-monotonic headers at different heights are normal operation
	_, err := coord.ChainA.Deliver(&client.MsgSubmitMisbehaviour{
		ClientID: path.EndpointA.ClientID,
		Misbehaviour: mock.Misbehaviour{
			ClientID: path.EndpointA.ClientID,
			Header1:  newer,
			Header2:  older,
		},
	})
	require.ErrorIs(t, err, client.ErrMisbehaviourVerification)

	status, err := coord.ChainA.Engine.ClientStatus(path.EndpointA.ClientID)
	require.NoError(t, err)
	require.Equal(t, exported.Active, status)
}

func TestUpdateUnknownClient(t *testing.T) {
	coord := enginetest.NewCoordinator(t)

	_, err := coord.ChainA.Deliver(&client.MsgUpdateClient{
		ClientID: "9999-mock-42",
		Header:   coord.ChainB.LatestHeader(),
	})
	require.ErrorIs(t, err, client.ErrClientNotFound)
}
