// Package exported defines the interfaces shared between the client
// subsystem and the light-client implementations. Each client type supplies
// its own concrete ClientState/ConsensusState/Header/Misbehaviour payloads.
package exported

import (
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Client type identifiers of the supported light clients.
const (
	// Tendermint tracks a chain running the Tendermint consensus algorithm.
	Tendermint = "07-tendermint"

	// Mock is a deterministic client without cryptography, for tests and
	// the simulator.
	Mock = "9999-mock"
)

// Status is the operational status of a client.
type Status string

const (
	// Active clients process updates and proofs.
	Active Status = "Active"

	// Frozen clients observed misbehaviour and permanently reject all
	// updates and proofs.
	Frozen Status = "Frozen"

	// Expired clients fell outside their trusting period and can no longer
	// be safely updated.
	Expired Status = "Expired"

	// Unknown indicates the status could not be determined.
	Unknown Status = "Unknown"
)

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// ClientState is the per-counterparty light client configuration.
type ClientState interface {
	ClientType() string
	GetLatestHeight() types.Height

	// GetFrozenHeight returns the height at which misbehaviour froze the
	// client. A zero height means the client is not frozen.
	GetFrozenHeight() types.Height
	IsFrozen() bool

	// Validate performs stateless well-formedness checks per client-type
	// rules.
	Validate() error
}

// ConsensusState is a trusted snapshot of a counterparty's committed state
// root and timestamp at a height.
type ConsensusState interface {
	ClientType() string

	// GetRoot returns the commitment root proofs verify against.
	GetRoot() commitment.MerkleRoot

	// GetTimestamp returns the snapshot's timestamp in nanoseconds.
	GetTimestamp() uint64

	ValidateBasic() error
}

// Header is a client-type-specific consensus update.
type Header interface {
	ClientType() string
	GetHeight() types.Height
	ValidateBasic() error
}

// Misbehaviour is client-type-specific evidence of a fork or equivocation.
type Misbehaviour interface {
	ClientType() string
	GetClientID() string

	// GetHeight returns the height the evidence pertains to; the client is
	// frozen at this height.
	GetHeight() types.Height

	ValidateBasic() error
}

// RegisterCodec registers the client interfaces on the state codec.
// Concrete payloads are registered by their own packages.
func RegisterCodec(cdc *types.Codec) {
	cdc.RegisterInterface((*ClientState)(nil), nil)
	cdc.RegisterInterface((*ConsensusState)(nil), nil)
	cdc.RegisterInterface((*Header)(nil), nil)
	cdc.RegisterInterface((*Misbehaviour)(nil), nil)
}
