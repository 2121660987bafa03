// Package mock implements a deterministic light client without any
// cryptography. Proofs are hash recomputations binding (root, path, value),
// so tests and the simulator can construct both valid and invalid proofs
// while the engine code paths stay identical to a real client's.
package mock

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/types"
)

// ClientState is the mock client configuration.
type ClientState struct {
	ChainID      string
	LatestHeight types.Height
	FrozenHeight types.Height
}

var _ exported.ClientState = ClientState{}

// NewClientState constructs an active mock client state.
func NewClientState(chainID string, latestHeight types.Height) ClientState {
	return ClientState{ChainID: chainID, LatestHeight: latestHeight}
}

// ClientType implements exported.ClientState.
func (cs ClientState) ClientType() string { return exported.Mock }

// GetLatestHeight implements exported.ClientState.
func (cs ClientState) GetLatestHeight() types.Height { return cs.LatestHeight }

// GetFrozenHeight implements exported.ClientState.
func (cs ClientState) GetFrozenHeight() types.Height { return cs.FrozenHeight }

// IsFrozen implements exported.ClientState.
func (cs ClientState) IsFrozen() bool { return !cs.FrozenHeight.IsZero() }

// Validate implements exported.ClientState.
func (cs ClientState) Validate() error {
	if cs.ChainID == "" {
		return sdkerrors.Wrap(client.ErrInvalidClientType, "chain id cannot be empty")
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "latest revision height cannot be zero")
	}
	return nil
}

// ConsensusState is the mock snapshot of a counterparty root.
type ConsensusState struct {
	Timestamp uint64
	Root      commitment.MerkleRoot
}

var _ exported.ConsensusState = ConsensusState{}

// ClientType implements exported.ConsensusState.
func (cs ConsensusState) ClientType() string { return exported.Mock }

// GetRoot implements exported.ConsensusState.
func (cs ConsensusState) GetRoot() commitment.MerkleRoot { return cs.Root }

// GetTimestamp implements exported.ConsensusState.
func (cs ConsensusState) GetTimestamp() uint64 { return cs.Timestamp }

// ValidateBasic implements exported.ConsensusState.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 {
		return sdkerrors.Wrap(types.ErrInvalidTimestamp, "timestamp cannot be zero")
	}
	if cs.Root.Empty() {
		return sdkerrors.Wrap(client.ErrInvalidConsensus, "root cannot be empty")
	}
	return nil
}

// Header is a mock consensus update.
type Header struct {
	Height    types.Height
	Timestamp uint64
	Root      commitment.MerkleRoot
}

var _ exported.Header = Header{}

// ClientType implements exported.Header.
func (h Header) ClientType() string { return exported.Mock }

// GetHeight implements exported.Header.
func (h Header) GetHeight() types.Height { return h.Height }

// ValidateBasic implements exported.Header.
func (h Header) ValidateBasic() error {
	if h.Height.RevisionHeight == 0 {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "header revision height cannot be zero")
	}
	if h.Timestamp == 0 {
		return sdkerrors.Wrap(types.ErrInvalidTimestamp, "header timestamp cannot be zero")
	}
	if h.Root.Empty() {
		return sdkerrors.Wrap(client.ErrInvalidHeader, "header root cannot be empty")
	}
	return nil
}

// ConsensusState returns the consensus state introduced by the header.
func (h Header) ConsensusState() ConsensusState {
	return ConsensusState{Timestamp: h.Timestamp, Root: h.Root}
}

// Misbehaviour is a pair of conflicting mock headers.
type Misbehaviour struct {
	ClientID string
	Header1  Header
	Header2  Header
}

var _ exported.Misbehaviour = Misbehaviour{}

// ClientType implements exported.Misbehaviour.
func (m Misbehaviour) ClientType() string { return exported.Mock }

// GetClientID implements exported.Misbehaviour.
func (m Misbehaviour) GetClientID() string { return m.ClientID }

// GetHeight implements exported.Misbehaviour.
func (m Misbehaviour) GetHeight() types.Height { return m.Header1.Height }

// ValidateBasic implements exported.Misbehaviour.
func (m Misbehaviour) ValidateBasic() error {
	if m.ClientID == "" {
		return sdkerrors.Wrap(client.ErrInvalidMisbehaviour, "client id cannot be empty")
	}
	if err := m.Header1.ValidateBasic(); err != nil {
		return err
	}
	if err := m.Header2.ValidateBasic(); err != nil {
		return err
	}
	if m.Header1.Height.LT(m.Header2.Height) {
		return sdkerrors.Wrap(client.ErrInvalidMisbehaviour, "header1 height is less than header2 height")
	}
	return nil
}

// MembershipProof returns the proof bytes a relayer of a mock chain would
// produce for value stored under path at the consensus state with root.
func MembershipProof(root commitment.MerkleRoot, path commitment.MerklePath, value []byte) []byte {
	bz := []byte("membership")
	bz = append(bz, root.Hash...)
	bz = append(bz, []byte(path.String())...)
	bz = append(bz, value...)
	return tmhash.Sum(bz)
}

// NonMembershipProof returns the proof bytes for the absence of path at the
// consensus state with root.
func NonMembershipProof(root commitment.MerkleRoot, path commitment.MerklePath) []byte {
	bz := []byte("absence")
	bz = append(bz, root.Hash...)
	bz = append(bz, []byte(path.String())...)
	return tmhash.Sum(bz)
}

// RegisterCodec registers the mock payloads on the state codec.
func RegisterCodec(cdc *types.Codec) {
	cdc.RegisterConcrete(ClientState{}, "ibc/lightclients/mock/ClientState", nil)
	cdc.RegisterConcrete(ConsensusState{}, "ibc/lightclients/mock/ConsensusState", nil)
	cdc.RegisterConcrete(Header{}, "ibc/lightclients/mock/Header", nil)
	cdc.RegisterConcrete(Misbehaviour{}, "ibc/lightclients/mock/Misbehaviour", nil)
}
