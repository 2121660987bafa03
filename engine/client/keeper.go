package client

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Keeper manages client and consensus state storage and gates all proof
// verification performed on behalf of the connection, channel and packet
// subsystems.
type Keeper struct {
	cdc    *types.Codec
	router *Router
	log    *zap.Logger

	// host clock capabilities, deterministic per block
	hostHeight func() types.Height
	hostTime   func() uint64
}

// NewKeeper constructs a client keeper.
func NewKeeper(cdc *types.Codec, router *Router, hostHeight func() types.Height, hostTime func() uint64, log *zap.Logger) Keeper {
	return Keeper{
		cdc:        cdc,
		router:     router,
		log:        log,
		hostHeight: hostHeight,
		hostTime:   hostTime,
	}
}

// Route returns the light-client module serving the client type.
func (k Keeper) Route(clientType string) (LightClientModule, error) {
	return k.router.GetRoute(clientType)
}

// RouteForClient resolves the module from a stored client's type.
func (k Keeper) RouteForClient(r state.Reader, clientID string) (LightClientModule, exported.ClientState, error) {
	clientState, err := k.GetClientState(r, clientID)
	if err != nil {
		return nil, nil, err
	}
	module, err := k.router.GetRoute(clientState.ClientType())
	if err != nil {
		return nil, nil, err
	}
	return module, clientState, nil
}

// GetClientState returns the stored client state.
func (k Keeper) GetClientState(r state.Reader, clientID string) (exported.ClientState, error) {
	bz, err := r.Get(host.FullClientStatePath(clientID))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, sdkerrors.Wrap(ErrClientNotFound, clientID)
	}
	var clientState exported.ClientState
	if err := k.cdc.UnmarshalBinaryBare(bz, &clientState); err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidClientType, "could not decode client state for %s: %v", clientID, err)
	}
	return clientState, nil
}

// SetClientState stores a client state.
func (k Keeper) SetClientState(w state.Writer, clientID string, clientState exported.ClientState) error {
	bz, err := k.cdc.MarshalBinaryBare(clientState)
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidClientType, "could not encode client state for %s: %v", clientID, err)
	}
	return w.Set(host.FullClientStatePath(clientID), bz)
}

// HasClientState reports whether a client exists.
func (k Keeper) HasClientState(r state.Reader, clientID string) (bool, error) {
	return r.Has(host.FullClientStatePath(clientID))
}

// GetConsensusState returns the consensus state stored for the client at
// the given height.
func (k Keeper) GetConsensusState(r state.Reader, clientID string, height types.Height) (exported.ConsensusState, error) {
	bz, err := r.Get(host.FullConsensusStatePath(clientID, height))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, sdkerrors.Wrapf(ErrConsensusStateNotFound, "client %s, height %s", clientID, height)
	}
	var consensusState exported.ConsensusState
	if err := k.cdc.UnmarshalBinaryBare(bz, &consensusState); err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidConsensus, "could not decode consensus state for %s at %s: %v", clientID, height, err)
	}
	return consensusState, nil
}

// SetConsensusState stores a consensus state for the client at the given
// height.
func (k Keeper) SetConsensusState(w state.Writer, clientID string, height types.Height, consensusState exported.ConsensusState) error {
	bz, err := k.cdc.MarshalBinaryBare(consensusState)
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidConsensus, "could not encode consensus state for %s at %s: %v", clientID, height, err)
	}
	return w.Set(host.FullConsensusStatePath(clientID, height), bz)
}

// HasConsensusState reports whether a consensus state exists at the height.
func (k Keeper) HasConsensusState(r state.Reader, clientID string, height types.Height) (bool, error) {
	return r.Has(host.FullConsensusStatePath(clientID, height))
}

// GetNextClientSequence returns the counter used to allocate client ids.
func (k Keeper) GetNextClientSequence(r state.Reader) (uint64, error) {
	bz, err := r.Get(host.KeyNextClientSequence)
	if err != nil {
		return 0, err
	}
	if bz == nil {
		return 0, nil
	}
	return sdk.BigEndianToUint64(bz), nil
}

// SetNextClientSequence stores the client id allocation counter.
func (k Keeper) SetNextClientSequence(w state.Writer, sequence uint64) error {
	return w.Set(host.KeyNextClientSequence, sdk.Uint64ToBigEndian(sequence))
}

// Status returns the client's operational status as of the host clock.
func (k Keeper) Status(r state.Reader, clientID string) (exported.Status, error) {
	module, _, err := k.RouteForClient(r, clientID)
	if err != nil {
		return exported.Unknown, err
	}
	return module.Status(r, k.cdc, clientID, k.hostTime()), nil
}

// ActiveClient errors unless the client exists and is active. Frozen clients
// reject every operation referencing them, permanently.
func (k Keeper) ActiveClient(r state.Reader, clientID string) error {
	status, err := k.Status(r, clientID)
	if err != nil {
		return err
	}
	switch status {
	case exported.Active:
		return nil
	case exported.Frozen:
		return sdkerrors.Wrap(ErrClientFrozen, clientID)
	default:
		return sdkerrors.Wrapf(ErrClientNotActive, "client %s status is %s", clientID, status)
	}
}

// GetTimestampAtHeight returns the timestamp of the consensus state stored
// at the given height, in nanoseconds.
func (k Keeper) GetTimestampAtHeight(r state.Reader, clientID string, height types.Height) (uint64, error) {
	consensusState, err := k.GetConsensusState(r, clientID, height)
	if err != nil {
		return 0, err
	}
	return consensusState.GetTimestamp(), nil
}

// VerifyMembership verifies, through the client, a proof that value is
// stored under path on the counterparty at the proof height. The proof is
// always checked against the height supplied in the message; that height
// must not exceed the client's currently trusted latest height.
func (k Keeper) VerifyMembership(r state.Reader, clientID string, height types.Height, delayTimePeriod, delayBlockPeriod uint64, proof []byte, path commitment.MerklePath, value []byte) error {
	module, err := k.gateProof(r, clientID, height)
	if err != nil {
		return err
	}
	if err := k.verifyDelayPeriodPassed(r, clientID, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return err
	}
	if err := module.VerifyMembership(r, k.cdc, clientID, height, proof, path, value); err != nil {
		return sdkerrors.Wrapf(ErrFailedMembershipVerification, "client %s, path %s: %v", clientID, path, err)
	}
	return nil
}

// VerifyNonMembership verifies, through the client, a proof that nothing is
// stored under path on the counterparty at the proof height.
func (k Keeper) VerifyNonMembership(r state.Reader, clientID string, height types.Height, delayTimePeriod, delayBlockPeriod uint64, proof []byte, path commitment.MerklePath) error {
	module, err := k.gateProof(r, clientID, height)
	if err != nil {
		return err
	}
	if err := k.verifyDelayPeriodPassed(r, clientID, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return err
	}
	if err := module.VerifyNonMembership(r, k.cdc, clientID, height, proof, path); err != nil {
		return sdkerrors.Wrapf(ErrFailedNonMembershipVerification, "client %s, path %s: %v", clientID, path, err)
	}
	return nil
}

// gateProof performs the client-generic checks shared by membership and
// non-membership verification.
func (k Keeper) gateProof(r state.Reader, clientID string, height types.Height) (LightClientModule, error) {
	module, clientState, err := k.RouteForClient(r, clientID)
	if err != nil {
		return nil, err
	}
	if clientState.IsFrozen() {
		return nil, sdkerrors.Wrap(ErrClientFrozen, clientID)
	}
	if height.GT(clientState.GetLatestHeight()) {
		return nil, sdkerrors.Wrapf(types.ErrInvalidHeight, "proof height %s is greater than client latest height %s", height, clientState.GetLatestHeight())
	}
	return module, nil
}

// verifyDelayPeriodPassed enforces the connection delay period: enough host
// time and blocks must have elapsed since the proof-height consensus state
// was stored.
func (k Keeper) verifyDelayPeriodPassed(r state.Reader, clientID string, proofHeight types.Height, delayTimePeriod, delayBlockPeriod uint64) error {
	if delayTimePeriod > 0 {
		processedTime, err := k.getProcessedTime(r, clientID, proofHeight)
		if err != nil {
			return err
		}
		currentTime := k.hostTime()
		validTime := processedTime + delayTimePeriod
		if currentTime < validTime {
			return sdkerrors.Wrapf(ErrFailedMembershipVerification, "cannot verify packet until time: %d, current time: %d", validTime, currentTime)
		}
	}
	if delayBlockPeriod > 0 {
		processedHeight, err := k.getProcessedHeight(r, clientID, proofHeight)
		if err != nil {
			return err
		}
		currentHeight := k.hostHeight()
		validHeight := types.NewHeight(processedHeight.RevisionNumber, processedHeight.RevisionHeight+delayBlockPeriod)
		if currentHeight.LT(validHeight) {
			return sdkerrors.Wrapf(ErrFailedMembershipVerification, "cannot verify packet until height: %s, current height: %s", validHeight, currentHeight)
		}
	}
	return nil
}

func (k Keeper) getProcessedTime(r state.Reader, clientID string, height types.Height) (uint64, error) {
	bz, err := r.Get(host.ProcessedTimePath(clientID, height))
	if err != nil {
		return 0, err
	}
	if bz == nil {
		return 0, sdkerrors.Wrapf(ErrConsensusStateNotFound, "processed time not found for client %s at height %s", clientID, height)
	}
	return sdk.BigEndianToUint64(bz), nil
}

func (k Keeper) getProcessedHeight(r state.Reader, clientID string, height types.Height) (types.Height, error) {
	bz, err := r.Get(host.ProcessedHeightPath(clientID, height))
	if err != nil {
		return types.ZeroHeight(), err
	}
	if bz == nil {
		return types.ZeroHeight(), sdkerrors.Wrapf(ErrConsensusStateNotFound, "processed height not found for client %s at height %s", clientID, height)
	}
	return types.ParseHeight(string(bz))
}

// SetProcessedMetadata records the host clock at which a consensus state
// was stored. Light-client modules call this from Initialize and
// UpdateState.
func SetProcessedMetadata(w state.Writer, clientID string, consensusHeight, hostHeight types.Height, hostTime uint64) error {
	if err := w.Set(host.ProcessedTimePath(clientID, consensusHeight), sdk.Uint64ToBigEndian(hostTime)); err != nil {
		return err
	}
	return w.Set(host.ProcessedHeightPath(clientID, consensusHeight), []byte(hostHeight.String()))
}
