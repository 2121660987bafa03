package connection

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/types"
)

// MsgConnectionOpenInit starts a handshake on this chain. The counterparty
// connection id is left empty; the remote end has not allocated one yet.
type MsgConnectionOpenInit struct {
	ClientID     string
	Counterparty Counterparty
	Version      *Version
	DelayPeriod  uint64
}

var _ types.Msg = (*MsgConnectionOpenInit)(nil)

// Route implements types.Msg.
func (msg *MsgConnectionOpenInit) Route() string { return types.RouterKeyConnection }

// Type implements types.Msg.
func (msg *MsgConnectionOpenInit) Type() string { return "connection_open_init" }

// ValidateBasic implements types.Msg.
func (msg *MsgConnectionOpenInit) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(msg.ClientID); err != nil {
		return sdkerrors.Wrap(err, "invalid client id")
	}
	if msg.Counterparty.ConnectionID != "" {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty connection id must be empty")
	}
	if msg.Version != nil {
		if err := ValidateVersion(msg.Version); err != nil {
			return err
		}
	}
	return msg.Counterparty.ValidateBasic()
}

// MsgConnectionOpenTry acknowledges on this chain a handshake started on the
// counterparty. It proves the counterparty's INIT end, its view of our
// client, and the consensus state it trusts for us.
type MsgConnectionOpenTry struct {
	ClientID             string
	Counterparty         Counterparty
	DelayPeriod          uint64
	ClientState          exported.ClientState
	CounterpartyVersions []*Version
	ProofHeight          types.Height
	ProofInit            []byte
	ProofClient          []byte
	ProofConsensus       []byte
	ConsensusHeight      types.Height
}

var _ types.Msg = (*MsgConnectionOpenTry)(nil)

// Route implements types.Msg.
func (msg *MsgConnectionOpenTry) Route() string { return types.RouterKeyConnection }

// Type implements types.Msg.
func (msg *MsgConnectionOpenTry) Type() string { return "connection_open_try" }

// ValidateBasic implements types.Msg.
func (msg *MsgConnectionOpenTry) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(msg.ClientID); err != nil {
		return sdkerrors.Wrap(err, "invalid client id")
	}
	if msg.Counterparty.ConnectionID == "" {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty connection id cannot be empty")
	}
	if err := msg.Counterparty.ValidateBasic(); err != nil {
		return err
	}
	if msg.ClientState == nil {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty client state cannot be nil")
	}
	if err := msg.ClientState.Validate(); err != nil {
		return sdkerrors.Wrap(err, "counterparty client state is invalid")
	}
	if len(msg.CounterpartyVersions) == 0 {
		return sdkerrors.Wrap(ErrInvalidVersion, "counterparty versions cannot be empty")
	}
	for _, version := range msg.CounterpartyVersions {
		if err := ValidateVersion(version); err != nil {
			return err
		}
	}
	if len(msg.ProofInit) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty connection cannot be empty")
	}
	if len(msg.ProofClient) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty client state cannot be empty")
	}
	if len(msg.ProofConsensus) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty consensus state cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	if msg.ConsensusHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "consensus height cannot be zero")
	}
	return nil
}

// MsgConnectionOpenAck completes the handshake on the chain that started it.
type MsgConnectionOpenAck struct {
	ConnectionID             string
	CounterpartyConnectionID string
	Version                  *Version
	ClientState              exported.ClientState
	ProofHeight              types.Height
	ProofTry                 []byte
	ProofClient              []byte
	ProofConsensus           []byte
	ConsensusHeight          types.Height
}

var _ types.Msg = (*MsgConnectionOpenAck)(nil)

// Route implements types.Msg.
func (msg *MsgConnectionOpenAck) Route() string { return types.RouterKeyConnection }

// Type implements types.Msg.
func (msg *MsgConnectionOpenAck) Type() string { return "connection_open_ack" }

// ValidateBasic implements types.Msg.
func (msg *MsgConnectionOpenAck) ValidateBasic() error {
	if err := host.ConnectionIdentifierValidator(msg.ConnectionID); err != nil {
		return sdkerrors.Wrap(err, "invalid connection id")
	}
	if err := host.ConnectionIdentifierValidator(msg.CounterpartyConnectionID); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty connection id")
	}
	if err := ValidateVersion(msg.Version); err != nil {
		return err
	}
	if msg.ClientState == nil {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty client state cannot be nil")
	}
	if err := msg.ClientState.Validate(); err != nil {
		return sdkerrors.Wrap(err, "counterparty client state is invalid")
	}
	if len(msg.ProofTry) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty connection cannot be empty")
	}
	if len(msg.ProofClient) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty client state cannot be empty")
	}
	if len(msg.ProofConsensus) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty consensus state cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	if msg.ConsensusHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "consensus height cannot be zero")
	}
	return nil
}

// MsgConnectionOpenConfirm completes the handshake on the chain that
// acknowledged it.
type MsgConnectionOpenConfirm struct {
	ConnectionID string
	ProofAck     []byte
	ProofHeight  types.Height
}

var _ types.Msg = (*MsgConnectionOpenConfirm)(nil)

// Route implements types.Msg.
func (msg *MsgConnectionOpenConfirm) Route() string { return types.RouterKeyConnection }

// Type implements types.Msg.
func (msg *MsgConnectionOpenConfirm) Type() string { return "connection_open_confirm" }

// ValidateBasic implements types.Msg.
func (msg *MsgConnectionOpenConfirm) ValidateBasic() error {
	if err := host.ConnectionIdentifierValidator(msg.ConnectionID); err != nil {
		return sdkerrors.Wrap(err, "invalid connection id")
	}
	if len(msg.ProofAck) == 0 {
		return sdkerrors.Wrap(commitment.ErrInvalidProof, "proof of the counterparty connection cannot be empty")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "proof height cannot be zero")
	}
	return nil
}
