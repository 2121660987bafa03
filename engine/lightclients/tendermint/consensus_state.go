package tendermint

import (
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/types"
)

// ConsensusState is the trusted view of the counterparty at one height: the
// block time, the app hash packets are proven against, and the hash of the
// validator set that will sign the next header.
type ConsensusState struct {
	Timestamp          time.Time
	Root               commitment.MerkleRoot
	NextValidatorsHash []byte
}

var _ exported.ConsensusState = ConsensusState{}

// NewConsensusState creates a new tendermint consensus state.
func NewConsensusState(timestamp time.Time, root commitment.MerkleRoot, nextValsHash []byte) ConsensusState {
	return ConsensusState{
		Timestamp:          timestamp,
		Root:               root,
		NextValidatorsHash: nextValsHash,
	}
}

// ClientType implements exported.ConsensusState.
func (cs ConsensusState) ClientType() string { return exported.Tendermint }

// GetRoot implements exported.ConsensusState.
func (cs ConsensusState) GetRoot() commitment.MerkleRoot { return cs.Root }

// GetTimestamp implements exported.ConsensusState. The timestamp is in
// nanoseconds since the unix epoch.
func (cs ConsensusState) GetTimestamp() uint64 { return uint64(cs.Timestamp.UnixNano()) }

// ValidateBasic implements exported.ConsensusState.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Root.Empty() {
		return sdkerrors.Wrap(client.ErrInvalidConsensus, "root cannot be empty")
	}
	if len(cs.NextValidatorsHash) != tmhash.Size {
		return sdkerrors.Wrapf(client.ErrInvalidConsensus,
			"next validators hash must be %d bytes, got %d", tmhash.Size, len(cs.NextValidatorsHash))
	}
	if cs.Timestamp.Unix() <= 0 {
		return sdkerrors.Wrap(types.ErrInvalidTimestamp, "timestamp must be a positive unix time")
	}
	return nil
}
