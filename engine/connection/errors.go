package connection

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

const codespace = "connection"

var (
	ErrConnectionExists         = sdkerrors.Register(codespace, 1, "connection already exists")
	ErrConnectionNotFound       = sdkerrors.Register(codespace, 2, "connection not found")
	ErrInvalidConnectionState   = sdkerrors.Register(codespace, 3, "invalid connection state")
	ErrInvalidCounterparty      = sdkerrors.Register(codespace, 4, "invalid connection counterparty")
	ErrInvalidVersion           = sdkerrors.Register(codespace, 5, "invalid connection version")
	ErrVersionNegotiationFailed = sdkerrors.Register(codespace, 6, "version negotiation failed")
	ErrSelfConsensusNotFound    = sdkerrors.Register(codespace, 7, "self consensus state not found")
)
