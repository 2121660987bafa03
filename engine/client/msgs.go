package client

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Message type names.
const (
	TypeMsgCreateClient       = "create_client"
	TypeMsgUpdateClient       = "update_client"
	TypeMsgSubmitMisbehaviour = "submit_misbehaviour"
)

var (
	_ types.Msg = (*MsgCreateClient)(nil)
	_ types.Msg = (*MsgUpdateClient)(nil)
	_ types.Msg = (*MsgSubmitMisbehaviour)(nil)
)

// MsgCreateClient creates a new light client tracking a counterparty chain.
type MsgCreateClient struct {
	ClientState    exported.ClientState
	ConsensusState exported.ConsensusState
}

// Route implements types.Msg.
func (msg *MsgCreateClient) Route() string { return types.RouterKeyClient }

// Type implements types.Msg.
func (msg *MsgCreateClient) Type() string { return TypeMsgCreateClient }

// ValidateBasic implements types.Msg.
func (msg *MsgCreateClient) ValidateBasic() error {
	if msg.ClientState == nil {
		return sdkerrors.Wrap(ErrInvalidClientType, "client state cannot be nil")
	}
	if err := msg.ClientState.Validate(); err != nil {
		return err
	}
	if msg.ConsensusState == nil {
		return sdkerrors.Wrap(ErrInvalidConsensus, "consensus state cannot be nil")
	}
	if msg.ClientState.ClientType() != msg.ConsensusState.ClientType() {
		return sdkerrors.Wrapf(ErrInvalidClientType, "client type %s does not match consensus state type %s",
			msg.ClientState.ClientType(), msg.ConsensusState.ClientType())
	}
	return msg.ConsensusState.ValidateBasic()
}

// MsgUpdateClient submits a new header to an existing client.
type MsgUpdateClient struct {
	ClientID string
	Header   exported.Header
}

// Route implements types.Msg.
func (msg *MsgUpdateClient) Route() string { return types.RouterKeyClient }

// Type implements types.Msg.
func (msg *MsgUpdateClient) Type() string { return TypeMsgUpdateClient }

// ValidateBasic implements types.Msg.
func (msg *MsgUpdateClient) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(msg.ClientID); err != nil {
		return err
	}
	if msg.Header == nil {
		return sdkerrors.Wrap(ErrInvalidHeader, "header cannot be nil")
	}
	return msg.Header.ValidateBasic()
}

// MsgSubmitMisbehaviour submits evidence that freezes a client.
type MsgSubmitMisbehaviour struct {
	ClientID     string
	Misbehaviour exported.Misbehaviour
}

// Route implements types.Msg.
func (msg *MsgSubmitMisbehaviour) Route() string { return types.RouterKeyClient }

// Type implements types.Msg.
func (msg *MsgSubmitMisbehaviour) Type() string { return TypeMsgSubmitMisbehaviour }

// ValidateBasic implements types.Msg.
func (msg *MsgSubmitMisbehaviour) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(msg.ClientID); err != nil {
		return err
	}
	if msg.Misbehaviour == nil {
		return sdkerrors.Wrap(ErrInvalidMisbehaviour, "misbehaviour cannot be nil")
	}
	if msg.Misbehaviour.GetClientID() != msg.ClientID {
		return sdkerrors.Wrapf(ErrInvalidMisbehaviour, "misbehaviour client id %s does not match %s",
			msg.Misbehaviour.GetClientID(), msg.ClientID)
	}
	return msg.Misbehaviour.ValidateBasic()
}
