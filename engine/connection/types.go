// Package connection implements the connection handshake and the proof
// plumbing that binds two clients into an authenticated pairing. Connection
// ends progress INIT -> TRYOPEN -> OPEN and never regress.
package connection

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/host"
)

// State is the handshake phase of a connection end.
type State int32

const (
	UNINITIALIZED State = iota
	INIT
	TRYOPEN
	OPEN
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case INIT:
		return "INIT"
	case TRYOPEN:
		return "TRYOPEN"
	case OPEN:
		return "OPEN"
	default:
		return "UNINITIALIZED"
	}
}

// Counterparty names the remote end of a connection: the client the remote
// chain runs for us, the remote connection identifier once allocated, and
// the store prefix its proofs are rooted under.
type Counterparty struct {
	ClientID     string
	ConnectionID string
	Prefix       commitment.MerklePrefix
}

// NewCounterparty creates a connection counterparty.
func NewCounterparty(clientID, connectionID string, prefix commitment.MerklePrefix) Counterparty {
	return Counterparty{
		ClientID:     clientID,
		ConnectionID: connectionID,
		Prefix:       prefix,
	}
}

// ValidateBasic performs stateless validation. The counterparty connection
// id is empty until the remote end allocates one.
func (c Counterparty) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(c.ClientID); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty client id")
	}
	if c.ConnectionID != "" {
		if err := host.ConnectionIdentifierValidator(c.ConnectionID); err != nil {
			return sdkerrors.Wrap(err, "invalid counterparty connection id")
		}
	}
	if c.Prefix.Empty() {
		return sdkerrors.Wrap(commitment.ErrInvalidPrefix, "counterparty prefix cannot be empty")
	}
	return nil
}

// ConnectionEnd is this chain's record of a connection.
type ConnectionEnd struct {
	State        State
	ClientID     string
	Counterparty Counterparty
	Versions     []*Version

	// DelayPeriod is the minimum time, in nanoseconds, that must elapse
	// after a consensus state is stored before proofs at that height are
	// accepted on this connection.
	DelayPeriod uint64
}

// NewConnectionEnd creates a connection end.
func NewConnectionEnd(state State, clientID string, counterparty Counterparty, versions []*Version, delayPeriod uint64) ConnectionEnd {
	return ConnectionEnd{
		State:        state,
		ClientID:     clientID,
		Counterparty: counterparty,
		Versions:     versions,
		DelayPeriod:  delayPeriod,
	}
}

// ValidateBasic performs stateless validation of a connection end.
func (c ConnectionEnd) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(c.ClientID); err != nil {
		return sdkerrors.Wrap(err, "invalid client id")
	}
	if len(c.Versions) == 0 {
		return sdkerrors.Wrap(ErrInvalidVersion, "empty connection versions")
	}
	for _, version := range c.Versions {
		if err := ValidateVersion(version); err != nil {
			return err
		}
	}
	return c.Counterparty.ValidateBasic()
}
