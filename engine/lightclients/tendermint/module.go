package tendermint

import (
	"bytes"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/light"
	tmtypes "github.com/tendermint/tendermint/types"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Module is the tendermint light-client capability.
type Module struct{}

var _ client.LightClientModule = Module{}

// NewModule returns the tendermint module.
func NewModule() Module { return Module{} }

// ClientType implements client.LightClientModule.
func (Module) ClientType() string { return exported.Tendermint }

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
	if err := consState.ValidateBasic(); err != nil {
		return err
	}
	if err := setConsensusState(w, cdc, clientID, cs.LatestHeight, consState); err != nil {
		return err
	}
	return client.SetProcessedMetadata(w, clientID, cs.LatestHeight, hostHeight, hostTime)
}

// VerifyHeader implements client.LightClientModule. The header is verified
// against the consensus state stored at its trusted height using skipping
// verification with the client's trust level.
func (m Module) VerifyHeader(r state.Reader, cdc *types.Codec, clientID string, header exported.Header, now uint64) error {
	h, ok := header.(Header)
	if !ok {
		return sdkerrors.Wrapf(client.ErrInvalidHeader, "expected %T, got %T", Header{}, header)
	}
	clientState, err := getClientState(r, cdc, clientID)
	if err != nil {
		return err
	}
	if err := h.ValidateBasic(); err != nil {
		return err
	}
	if h.SignedHeader.Header.ChainID != clientState.ChainID {
		return sdkerrors.Wrapf(ErrInvalidHeader,
			"header chain id %s does not match client chain id %s", h.SignedHeader.Header.ChainID, clientState.ChainID)
	}
	if h.GetHeight().RevisionNumber != clientState.LatestHeight.RevisionNumber {
		return sdkerrors.Wrapf(types.ErrInvalidHeight,
			"header revision %d does not match client revision %d",
			h.GetHeight().RevisionNumber, clientState.LatestHeight.RevisionNumber)
	}

	trustedConsState, found, err := getConsensusState(r, cdc, clientID, h.TrustedHeight)
	if err != nil {
		return err
	}
	if !found {
		return sdkerrors.Wrapf(client.ErrConsensusStateNotFound,
			"no trusted consensus state at height %s for client %s", h.TrustedHeight, clientID)
	}

	trustedHeader, err := trustedSignedHeader(clientState.ChainID, h.TrustedHeight, trustedConsState, h.TrustedValidators)
	if err != nil {
		return err
	}

	if err := light.Verify(
		trustedHeader, h.TrustedValidators,
		h.SignedHeader, h.ValidatorSet,
		clientState.TrustingPeriod, nanosToTime(now), clientState.MaxClockDrift,
		clientState.TrustLevel.ToTendermint(),
	); err != nil {
		return sdkerrors.Wrap(ErrInvalidHeader, err.Error())
	}
	return nil
}

// CheckForMisbehaviour implements client.LightClientModule. It reports true
// when a consensus state with different content already exists at the header
// height.
func (m Module) CheckForMisbehaviour(r state.Reader, cdc *types.Codec, clientID string, header exported.Header) (bool, error) {
	h, ok := header.(Header)
	if !ok {
		return false, sdkerrors.Wrapf(client.ErrInvalidHeader, "expected %T, got %T", Header{}, header)
	}
	existing, found, err := getConsensusState(r, cdc, clientID, h.GetHeight())
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	fromHeader := h.ConsensusState()
	return !existing.Timestamp.Equal(fromHeader.Timestamp) ||
		!bytes.Equal(existing.Root.Hash, fromHeader.Root.Hash) ||
		!bytes.Equal(existing.NextValidatorsHash, fromHeader.NextValidatorsHash), nil
}

// VerifyMisbehaviour implements client.LightClientModule. Both headers must
// independently verify against their trusted consensus states; the pair must
// then either conflict at the same height or break time monotonicity.
func (m Module) VerifyMisbehaviour(r state.Reader, cdc *types.Codec, clientID string, misbehaviour exported.Misbehaviour, now uint64) error {
	evidence, ok := misbehaviour.(Misbehaviour)
	if !ok {
		return sdkerrors.Wrapf(client.ErrInvalidMisbehaviour, "expected %T, got %T", Misbehaviour{}, misbehaviour)
	}
	if err := evidence.ValidateBasic(); err != nil {
		return err
	}

	clientState, err := getClientState(r, cdc, clientID)
	if err != nil {
		return err
	}
	if evidence.Header1.SignedHeader.Header.ChainID != clientState.ChainID {
		return sdkerrors.Wrapf(ErrInvalidMisbehaviour,
			"evidence chain id %s does not match client chain id %s",
			evidence.Header1.SignedHeader.Header.ChainID, clientState.ChainID)
	}

	for _, h := range []*Header{evidence.Header1, evidence.Header2} {
		trustedConsState, found, err := getConsensusState(r, cdc, clientID, h.TrustedHeight)
		if err != nil {
			return err
		}
		if !found {
			return sdkerrors.Wrapf(client.ErrConsensusStateNotFound,
				"no trusted consensus state at height %s for client %s", h.TrustedHeight, clientID)
		}
		if err := checkMisbehaviourHeader(clientState, trustedConsState, h, nanosToTime(now)); err != nil {
			return err
		}
	}

	if evidence.Header1.GetHeight().EQ(evidence.Header2.GetHeight()) {
		// equivocation, conflict already established by ValidateBasic
		return nil
	}
	if evidence.Header1.SignedHeader.Header.Time.After(evidence.Header2.SignedHeader.Header.Time) {
		return sdkerrors.Wrap(ErrInvalidMisbehaviour,
			"headers are time-monotonic, no misbehaviour")
	}
	return nil
}

// checkMisbehaviourHeader verifies one half of the evidence against its
// trusted state. Unlike header updates the commit is checked directly with
// the trust level, without monotonicity constraints.
func checkMisbehaviourHeader(clientState ClientState, trustedConsState ConsensusState, h *Header, now time.Time) error {
	if !bytes.Equal(h.TrustedValidators.Hash(), trustedConsState.NextValidatorsHash) {
		return sdkerrors.Wrapf(ErrInvalidValidatorSet,
			"trusted validators %X do not hash to the trusted consensus state's next validators hash %X",
			h.TrustedValidators.Hash(), trustedConsState.NextValidatorsHash)
	}
	if clientState.expired(trustedConsState.Timestamp, now) {
		return sdkerrors.Wrapf(ErrInvalidTrustingPeriod,
			"trusted consensus state from %s is outside the trusting period as of %s", trustedConsState.Timestamp, now)
	}
	chainID := h.SignedHeader.Header.ChainID
	if err := h.TrustedValidators.VerifyCommitLightTrusting(
		chainID, h.SignedHeader.Commit, clientState.TrustLevel.ToTendermint(),
	); err != nil {
		return sdkerrors.Wrapf(ErrInvalidMisbehaviour, "header commit failed verification: %v", err)
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

	height := h.GetHeight()
	if err := setConsensusState(w, cdc, clientID, height, h.ConsensusState()); err != nil {
		return types.ZeroHeight(), err
	}
	if err := client.SetProcessedMetadata(w, clientID, height, hostHeight, hostTime); err != nil {
		return types.ZeroHeight(), err
	}

	if height.GT(clientState.LatestHeight) {
		clientState.LatestHeight = height
		if err := setClientState(w, cdc, clientID, clientState); err != nil {
			return types.ZeroHeight(), err
		}
	}
	return height, nil
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
	clientState, err := getClientState(reader, cdc, clientID)
	if err != nil {
		return err
	}
	consState, found, err := getConsensusState(reader, cdc, clientID, height)
	if err != nil {
		return err
	}
	if !found {
		return sdkerrors.Wrapf(client.ErrConsensusStateNotFound, "client %s, height %s", clientID, height)
	}
	merkleProof, err := commitment.UnmarshalMerkleProof(proof)
	if err != nil {
		return err
	}
	return merkleProof.VerifyMembership(clientState.ProofSpecs, consState.Root, path, value)
}

// VerifyNonMembership implements client.LightClientModule.
func (m Module) VerifyNonMembership(reader state.Reader, cdc *types.Codec, clientID string, height types.Height, proof []byte, path commitment.MerklePath) error {
	clientState, err := getClientState(reader, cdc, clientID)
	if err != nil {
		return err
	}
	consState, found, err := getConsensusState(reader, cdc, clientID, height)
	if err != nil {
		return err
	}
	if !found {
		return sdkerrors.Wrapf(client.ErrConsensusStateNotFound, "client %s, height %s", clientID, height)
	}
	merkleProof, err := commitment.UnmarshalMerkleProof(proof)
	if err != nil {
		return err
	}
	return merkleProof.VerifyNonMembership(clientState.ProofSpecs, consState.Root, path)
}

// Status implements client.LightClientModule.
func (m Module) Status(reader state.Reader, cdc *types.Codec, clientID string, now uint64) exported.Status {
	clientState, err := getClientState(reader, cdc, clientID)
	if err != nil {
		return exported.Unknown
	}
	if clientState.IsFrozen() {
		return exported.Frozen
	}
	consState, found, err := getConsensusState(reader, cdc, clientID, clientState.LatestHeight)
	if err != nil || !found {
		return exported.Unknown
	}
	if clientState.expired(consState.Timestamp, nanosToTime(now)) {
		return exported.Expired
	}
	return exported.Active
}

// trustedSignedHeader reconstructs the minimal signed header the light
// package needs from a stored consensus state. Only the fields read by
// light.Verify are populated.
func trustedSignedHeader(chainID string, trustedHeight types.Height, consState ConsensusState, trustedVals *tmtypes.ValidatorSet) (*tmtypes.SignedHeader, error) {
	if !bytes.Equal(trustedVals.Hash(), consState.NextValidatorsHash) {
		return nil, sdkerrors.Wrapf(ErrInvalidValidatorSet,
			"trusted validators %X do not hash to the trusted consensus state's next validators hash %X",
			trustedVals.Hash(), consState.NextValidatorsHash)
	}
	return &tmtypes.SignedHeader{
		Header: &tmtypes.Header{
			ChainID:            chainID,
			Height:             int64(trustedHeight.RevisionHeight),
			Time:               consState.Timestamp,
			NextValidatorsHash: consState.NextValidatorsHash,
		},
	}, nil
}

func nanosToTime(ns uint64) time.Time {
	return time.Unix(0, int64(ns))
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
