package tendermint

import (
	"testing"
	"time"

	ics23 "github.com/confio/ics23/go"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/types"
)

const (
	testTrustingPeriod  = 2 * 7 * 24 * time.Hour
	testUnbondingPeriod = 3 * 7 * 24 * time.Hour
	testMaxClockDrift   = 10 * time.Second
)

func testClientState(chainID string, latestHeight types.Height) ClientState {
	return NewClientState(
		chainID, DefaultTrustLevel,
		testTrustingPeriod, testUnbondingPeriod, testMaxClockDrift,
		latestHeight, commitment.GetSDKSpecs(), nil,
	)
}

func TestClientStateValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cs *ClientState)
		expPass bool
	}{
		{"valid", func(cs *ClientState) {}, true},
		{"valid with upgrade path", func(cs *ClientState) {
			cs.UpgradePath = []string{"upgrade", "upgradedIBCState"}
		}, true},
		{"empty chain id", func(cs *ClientState) {
			cs.ChainID = ""
		}, false},
		{"zero trust level", func(cs *ClientState) {
			cs.TrustLevel = Fraction{Numerator: 0, Denominator: 1}
		}, false},
		{"trust level above one", func(cs *ClientState) {
			cs.TrustLevel = Fraction{Numerator: 2, Denominator: 1}
		}, false},
		{"zero trusting period", func(cs *ClientState) {
			cs.TrustingPeriod = 0
		}, false},
		{"zero unbonding period", func(cs *ClientState) {
			cs.UnbondingPeriod = 0
		}, false},
		{"zero max clock drift", func(cs *ClientState) {
			cs.MaxClockDrift = 0
		}, false},
		{"trusting period not below unbonding period", func(cs *ClientState) {
			cs.TrustingPeriod = cs.UnbondingPeriod
		}, false},
		{"zero latest height", func(cs *ClientState) {
			cs.LatestHeight = types.ZeroHeight()
		}, false},
		{"revision number does not match chain id", func(cs *ClientState) {
			cs.LatestHeight = types.NewHeight(7, 10)
		}, false},
		{"nil proof specs", func(cs *ClientState) {
			cs.ProofSpecs = nil
		}, false},
		{"nil proof spec element", func(cs *ClientState) {
			cs.ProofSpecs = []*ics23.ProofSpec{ics23.IavlSpec, nil}
		}, false},
		{"empty upgrade path key", func(cs *ClientState) {
			cs.UpgradePath = []string{"upgrade", ""}
		}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cs := testClientState("gaia-3", types.NewHeight(3, 10))
			tc.mutate(&cs)
			err := cs.Validate()
			if tc.expPass {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestClientStateRevisionFromChainID(t *testing.T) {
	// "chain-0" does not carry a revision suffix, so revision zero is the
	// only latest height revision it accepts
	cs := testClientState("chain-0", types.NewHeight(0, 10))
	require.NoError(t, cs.Validate())

	cs = testClientState("chain-0", types.NewHeight(1, 10))
	require.ErrorIs(t, cs.Validate(), types.ErrInvalidHeight)
}

func TestConsensusStateValidateBasic(t *testing.T) {
	valid := NewConsensusState(
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		commitment.NewMerkleRoot(tmhash.Sum([]byte("app hash"))),
		tmhash.Sum([]byte("next validators")),
	)
	require.NoError(t, valid.ValidateBasic())

	emptyRoot := valid
	emptyRoot.Root = commitment.MerkleRoot{}
	require.Error(t, emptyRoot.ValidateBasic())

	badValsHash := valid
	badValsHash.NextValidatorsHash = []byte("too short")
	require.Error(t, badValsHash.ValidateBasic())

	zeroTime := valid
	zeroTime.Timestamp = time.Time{}
	require.Error(t, zeroTime.ValidateBasic())
}

func TestClientStateExpired(t *testing.T) {
	cs := testClientState("gaia-3", types.NewHeight(3, 10))
	latest := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	require.False(t, cs.expired(latest, latest.Add(cs.TrustingPeriod-time.Second)))
	require.True(t, cs.expired(latest, latest.Add(cs.TrustingPeriod)))
}
