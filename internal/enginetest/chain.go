// Package enginetest provides a deterministic two-chain harness for
// exercising the engine end to end. Chains run in memory on the mock light
// client; commitment roots derive from the chain id and height, so any
// endpoint can generate proofs for its counterparty without real consensus.
package enginetest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"go.uber.org/zap/zaptest"

	"github.com/cosmos/ibc-engine/engine"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/lightclients/mock"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// MockPort is the port the harness application binds on every chain.
const MockPort = "mock"

// TimePerBlock is the nanosecond interval between harness blocks.
const TimePerBlock = uint64(time.Second)

var genesisTime = uint64(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano())

// DefaultPrefix is the commitment prefix every harness chain stores provable
// state under.
func DefaultPrefix() commitment.MerklePrefix {
	return commitment.NewMerklePrefix([]byte("ibc"))
}

// Chain is one in-memory chain: an engine over a memdb store plus a block
// clock the harness advances explicitly.
type Chain struct {
	t *testing.T

	ChainID string
	Engine  *engine.Engine
	App     *MockApp

	store  *state.Store
	height uint64
}

// NewChain constructs a chain at height 1 with the mock client module and
// the harness application registered.
func NewChain(t *testing.T, chainID string) *Chain {
	c := &Chain{
		t:       t,
		ChainID: chainID,
		App:     NewMockApp(),
		store:   state.NewMemStore(),
		height:  1,
	}

	c.Engine = engine.New(engine.Config{
		Codec:               engine.NewDefaultCodec(),
		Store:               c.store,
		Prefix:              DefaultPrefix(),
		HostHeight:          c.CurrentHeight,
		HostTime:            c.CurrentTimestamp,
		SelfClientValidator: c.validateSelfClient,
		SelfConsensusState:  c.selfConsensusState,
		Logger:              zaptest.NewLogger(t),
	})
	c.Engine.RegisterClientModule(mock.NewModule())
	require.NoError(t, c.Engine.RegisterApp(MockPort, c.App))
	return c
}

// CurrentHeight returns the chain's block height.
func (c *Chain) CurrentHeight() types.Height {
	return types.NewHeight(0, c.height)
}

// CurrentTimestamp returns the chain's block time in nanoseconds.
func (c *Chain) CurrentTimestamp() uint64 {
	return c.TimestampAt(c.CurrentHeight())
}

// TimestampAt returns the deterministic block time of any height.
func (c *Chain) TimestampAt(height types.Height) uint64 {
	return genesisTime + height.RevisionHeight*TimePerBlock
}

// NextBlock advances the chain by one block.
func (c *Chain) NextBlock() {
	c.height++
}

// AdvanceTo advances the chain to at least the given revision height.
func (c *Chain) AdvanceTo(revisionHeight uint64) {
	for c.height < revisionHeight {
		c.NextBlock()
	}
}

// RootAt returns the synthetic commitment root of the chain at a height.
func (c *Chain) RootAt(height types.Height) commitment.MerkleRoot {
	return commitment.NewMerkleRoot(tmhash.Sum([]byte(fmt.Sprintf("%s/%s", c.ChainID, height))))
}

// ConsensusStateAt returns the consensus state a correct counterparty client
// holds for the chain at a height.
func (c *Chain) ConsensusStateAt(height types.Height) mock.ConsensusState {
	return mock.ConsensusState{
		Timestamp: c.TimestampAt(height),
		Root:      c.RootAt(height),
	}
}

// LatestHeader returns the header a relayer would submit to update a client
// of this chain.
func (c *Chain) LatestHeader() mock.Header {
	return mock.Header{
		Height:    c.CurrentHeight(),
		Timestamp: c.CurrentTimestamp(),
		Root:      c.RootAt(c.CurrentHeight()),
	}
}

// QueryValue reads a raw value from the chain's store.
func (c *Chain) QueryValue(path string) []byte {
	value, err := c.store.Get(path)
	require.NoError(c.t, err)
	return value
}

// QueryProof generates the proof a relayer would carry for the path at the
// chain's current height: a membership proof of the stored value, or an
// absence proof if nothing is stored.
func (c *Chain) QueryProof(path string) ([]byte, types.Height) {
	height := c.CurrentHeight()
	merklePath := commitment.NewMerklePath(string(DefaultPrefix().KeyPrefix), path)
	value := c.QueryValue(path)
	if value == nil {
		return mock.NonMembershipProof(c.RootAt(height), merklePath), height
	}
	return mock.MembershipProof(c.RootAt(height), merklePath, value), height
}

// Deliver submits a message to the chain's engine.
func (c *Chain) Deliver(msg types.Msg) (*engine.Result, error) {
	return c.Engine.Deliver(msg)
}

// MustDeliver submits a message and fails the test on rejection.
func (c *Chain) MustDeliver(msg types.Msg) *engine.Result {
	res, err := c.Deliver(msg)
	require.NoError(c.t, err, "delivering %s on %s", msg.Type(), c.ChainID)
	return res
}

func (c *Chain) validateSelfClient(clientState exported.ClientState) error {
	cs, ok := clientState.(mock.ClientState)
	if !ok {
		return fmt.Errorf("expected %T, got %T", mock.ClientState{}, clientState)
	}
	if cs.ChainID != c.ChainID {
		return fmt.Errorf("client state chain id %s does not match %s", cs.ChainID, c.ChainID)
	}
	return nil
}

func (c *Chain) selfConsensusState(height types.Height) (exported.ConsensusState, error) {
	if height.RevisionHeight == 0 || height.GT(c.CurrentHeight()) {
		return nil, fmt.Errorf("no consensus state at height %s", height)
	}
	return c.ConsensusStateAt(height), nil
}
