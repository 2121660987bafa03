package mock

import (
	"bytes"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Module is the mock light-client capability.
type Module struct{}

var _ client.LightClientModule = Module{}

// NewModule returns the mock module.
func NewModule() Module { return Module{} }

// ClientType implements client.LightClientModule.
func (Module) ClientType() string { return exported.Mock }

// Initialize implements client.LightClientModule.
func (m Module) Initialize(w state.Writer, cdc *types.Codec, clientID string, clientState exported.ClientState, consensusState exported.ConsensusState, hostHeight types.Height, hostTime uint64) error {
	cs, ok := clientState.(ClientState)
	if !ok {
		return sdkerrors.Wrapf(client.ErrInvalidClientType, "expected %T, got %T", ClientState{}, clientState)
	}
	consState, ok := consensusState.(ConsensusState)
	if !ok {
		return sdkerrors.Wrapf(client.ErrInvalidConsensus, "expected %T, got %T", ConsensusState{}, consensusState)
	}
	if err := setConsensusState(w, cdc, clientID, cs.LatestHeight, consState); err != nil {
		return err
	}
	return client.SetProcessedMetadata(w, clientID, cs.LatestHeight, hostHeight, hostTime)
}

// VerifyHeader implements client.LightClientModule. The mock client trusts
// any well-formed header.
func (m Module) VerifyHeader(r state.Reader, cdc *types.Codec, clientID string, header exported.Header, now uint64) error {
	h, ok := header.(Header)
	if !ok {
		return sdkerrors.Wrapf(client.ErrInvalidHeader, "expected %T, got %T", Header{}, header)
	}
	return h.ValidateBasic()
}

// CheckForMisbehaviour implements client.LightClientModule.
func (m Module) CheckForMisbehaviour(r state.Reader, cdc *types.Codec, clientID string, header exported.Header) (bool, error) {
	h, ok := header.(Header)
	if !ok {
		return false, sdkerrors.Wrapf(client.ErrInvalidHeader, "expected %T, got %T", Header{}, header)
	}
	existing, found, err := getConsensusState(r, cdc, clientID, h.Height)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return existing.Timestamp != h.Timestamp || !bytes.Equal(existing.Root.Hash, h.Root.Hash), nil
}

// VerifyMisbehaviour implements client.LightClientModule.
func (m Module) VerifyMisbehaviour(r state.Reader, cdc *types.Codec, clientID string, misbehaviour exported.Misbehaviour, now uint64) error {
	evidence, ok := misbehaviour.(Misbehaviour)
	if !ok {
		return sdkerrors.Wrapf(client.ErrInvalidMisbehaviour, "expected %T, got %T", Misbehaviour{}, misbehaviour)
	}
	if err := evidence.ValidateBasic(); err != nil {
		return err
	}

	if evidence.Header1.Height.EQ(evidence.Header2.Height) {
		// equivocation: two different headers at the same height
		if evidence.Header1.Timestamp == evidence.Header2.Timestamp &&
			bytes.Equal(evidence.Header1.Root.Hash, evidence.Header2.Root.Hash) {
			return sdkerrors.Wrap(client.ErrInvalidMisbehaviour, "headers at the same height are identical")
		}
		return nil
	}
	// header1 is at the greater height; time must not be monotonic across
	// the pair for it to prove misbehaviour
	if evidence.Header1.Timestamp > evidence.Header2.Timestamp {
		return sdkerrors.Wrap(client.ErrInvalidMisbehaviour, "headers are time-monotonic, no misbehaviour")
	}
	return nil
}

// UpdateState implements client.LightClientModule.
func (m Module) UpdateState(w state.Writer, cdc *types.Codec, clientID string, header exported.Header, hostHeight types.Height, hostTime uint64) (types.Height, error) {
	h, ok := header.(Header)
	if !ok {
		return types.ZeroHeight(), sdkerrors.Wrapf(client.ErrInvalidHeader, "expected %T, got %T", Header{}, header)
	}
	clientState, err := getClientState(w, cdc, clientID)
	if err != nil {
		return types.ZeroHeight(), err
	}

	if err := setConsensusState(w, cdc, clientID, h.Height, h.ConsensusState()); err != nil {
		return types.ZeroHeight(), err
	}
	if err := client.SetProcessedMetadata(w, clientID, h.Height, hostHeight, hostTime); err != nil {
		return types.ZeroHeight(), err
	}

	if h.Height.GT(clientState.LatestHeight) {
		clientState.LatestHeight = h.Height
		if err := setClientState(w, cdc, clientID, clientState); err != nil {
			return types.ZeroHeight(), err
		}
	}
	return h.Height, nil
}

// UpdateStateOnMisbehaviour implements client.LightClientModule.
func (m Module) UpdateStateOnMisbehaviour(w state.Writer, cdc *types.Codec, clientID string, misbehaviour exported.Misbehaviour) error {
	clientState, err := getClientState(w, cdc, clientID)
	if err != nil {
		return err
	}
	clientState.FrozenHeight = misbehaviour.GetHeight()
	return setClientState(w, cdc, clientID, clientState)
}

// VerifyMembership implements client.LightClientModule.
func (m Module) VerifyMembership(reader state.Reader, cdc *types.Codec, clientID string, height types.Height, proof []byte, path commitment.MerklePath, value []byte) error {
	if len(proof) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof cannot be empty")
	}
	consState, found, err := getConsensusState(reader, cdc, clientID, height)
	if err != nil {
		return err
	}
	if !found {
		return sdkerrors.Wrapf(client.ErrConsensusStateNotFound, "client %s, height %s", clientID, height)
	}
	if !bytes.Equal(proof, MembershipProof(consState.Root, path, value)) {
		return sdkerrors.Wrapf(commitment.ErrInvalidProof, "membership proof mismatch for path %s", path)
	}
	return nil
}

// VerifyNonMembership implements client.LightClientModule.
func (m Module) VerifyNonMembership(reader state.Reader, cdc *types.Codec, clientID string, height types.Height, proof []byte, path commitment.MerklePath) error {
	if len(proof) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof cannot be empty")
	}
	consState, found, err := getConsensusState(reader, cdc, clientID, height)
	if err != nil {
		return err
	}
	if !found {
		return sdkerrors.Wrapf(client.ErrConsensusStateNotFound, "client %s, height %s", clientID, height)
	}
	if !bytes.Equal(proof, NonMembershipProof(consState.Root, path)) {
		return sdkerrors.Wrapf(commitment.ErrInvalidProof, "non-membership proof mismatch for path %s", path)
	}
	return nil
}

// Status implements client.LightClientModule. Mock clients never expire.
func (m Module) Status(reader state.Reader, cdc *types.Codec, clientID string, now uint64) exported.Status {
	clientState, err := getClientState(reader, cdc, clientID)
	if err != nil {
		return exported.Unknown
	}
	if clientState.IsFrozen() {
		return exported.Frozen
	}
	return exported.Active
}

func getClientState(reader state.Reader, cdc *types.Codec, clientID string) (ClientState, error) {
	bz, err := reader.Get(host.FullClientStatePath(clientID))
	if err != nil {
		return ClientState{}, err
	}
	if bz == nil {
		return ClientState{}, sdkerrors.Wrap(client.ErrClientNotFound, clientID)
	}
	var clientState exported.ClientState
	if err := cdc.UnmarshalBinaryBare(bz, &clientState); err != nil {
		return ClientState{}, sdkerrors.Wrapf(client.ErrInvalidClientType, "could not decode client state: %v", err)
	}
	cs, ok := clientState.(ClientState)
	if !ok {
		return ClientState{}, sdkerrors.Wrapf(client.ErrInvalidClientType, "expected %T, got %T", ClientState{}, clientState)
	}
	return cs, nil
}

func setClientState(w state.Writer, cdc *types.Codec, clientID string, cs ClientState) error {
	bz, err := cdc.MarshalBinaryBare(exported.ClientState(cs))
	if err != nil {
		return err
	}
	return w.Set(host.FullClientStatePath(clientID), bz)
}

func getConsensusState(reader state.Reader, cdc *types.Codec, clientID string, height types.Height) (ConsensusState, bool, error) {
	bz, err := reader.Get(host.FullConsensusStatePath(clientID, height))
	if err != nil {
		return ConsensusState{}, false, err
	}
	if bz == nil {
		return ConsensusState{}, false, nil
	}
	var consensusState exported.ConsensusState
	if err := cdc.UnmarshalBinaryBare(bz, &consensusState); err != nil {
		return ConsensusState{}, false, sdkerrors.Wrapf(client.ErrInvalidConsensus, "could not decode consensus state: %v", err)
	}
	cs, ok := consensusState.(ConsensusState)
	if !ok {
		return ConsensusState{}, false, sdkerrors.Wrapf(client.ErrInvalidConsensus, "expected %T, got %T", ConsensusState{}, consensusState)
	}
	return cs, true, nil
}

func setConsensusState(w state.Writer, cdc *types.Codec, clientID string, height types.Height, cs ConsensusState) error {
	bz, err := cdc.MarshalBinaryBare(exported.ConsensusState(cs))
	if err != nil {
		return err
	}
	return w.Set(host.FullConsensusStatePath(clientID, height), bz)
}
