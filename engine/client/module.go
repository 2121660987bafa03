package client

import (
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// LightClientModule is the pluggable verification capability of one client
// type. The keeper owns client-state storage and generic gating (frozen
// clients, proof-height bounds, delay periods); the module owns the
// client-type-specific cryptography and consensus-state layout.
//
// Every method must degrade to a typed error on malformed or adversarial
// input. Panicking on invalid bytes is a protocol defect.
type LightClientModule interface {
	// ClientType returns the type identifier the module serves.
	ClientType() string

	// Initialize validates the initial (client state, consensus state) pair
	// and stores the consensus state and any client metadata. The keeper has
	// already stored the client state.
	Initialize(w state.Writer, cdc *types.Codec, clientID string, clientState exported.ClientState, consensusState exported.ConsensusState, hostHeight types.Height, hostTime uint64) error

	// VerifyHeader verifies the header against the client's trusted state.
	// now is the host's block time in nanoseconds.
	VerifyHeader(r state.Reader, cdc *types.Codec, clientID string, header exported.Header, now uint64) error

	// CheckForMisbehaviour reports whether a verified header conflicts with
	// a consensus state already stored at its height.
	CheckForMisbehaviour(r state.Reader, cdc *types.Codec, clientID string, header exported.Header) (bool, error)

	// VerifyMisbehaviour checks whether the evidence proves a fork or
	// equivocation against the client's trusted state.
	VerifyMisbehaviour(r state.Reader, cdc *types.Codec, clientID string, misbehaviour exported.Misbehaviour, now uint64) error

	// UpdateState stores the consensus state introduced by a verified
	// header, records update metadata and advances the client's latest
	// height. It returns the header height.
	UpdateState(w state.Writer, cdc *types.Codec, clientID string, header exported.Header, hostHeight types.Height, hostTime uint64) (types.Height, error)

	// UpdateStateOnMisbehaviour freezes the client at the evidence height.
	UpdateStateOnMisbehaviour(w state.Writer, cdc *types.Codec, clientID string, misbehaviour exported.Misbehaviour) error

	// VerifyMembership verifies a proof that value is stored under path on
	// the counterparty as of the consensus state at height.
	VerifyMembership(r state.Reader, cdc *types.Codec, clientID string, height types.Height, proof []byte, path commitment.MerklePath, value []byte) error

	// VerifyNonMembership verifies a proof that nothing is stored under
	// path on the counterparty as of the consensus state at height.
	VerifyNonMembership(r state.Reader, cdc *types.Codec, clientID string, height types.Height, proof []byte, path commitment.MerklePath) error

	// Status reports the client's operational status as of now.
	Status(r state.Reader, cdc *types.Codec, clientID string, now uint64) exported.Status
}
