package tendermint

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

const codespace = "tendermint"

var (
	ErrInvalidTrustingPeriod  = sdkerrors.Register(codespace, 1, "invalid trusting period")
	ErrInvalidUnbondingPeriod = sdkerrors.Register(codespace, 2, "invalid unbonding period")
	ErrInvalidHeader          = sdkerrors.Register(codespace, 3, "invalid header")
	ErrInvalidTrustLevel      = sdkerrors.Register(codespace, 4, "invalid trust level")
	ErrInvalidMaxClockDrift   = sdkerrors.Register(codespace, 5, "invalid max clock drift")
	ErrInvalidChainID         = sdkerrors.Register(codespace, 6, "invalid chain id")
	ErrInvalidProofSpecs      = sdkerrors.Register(codespace, 7, "invalid proof specs")
	ErrInvalidValidatorSet    = sdkerrors.Register(codespace, 8, "invalid validator set")
	ErrInvalidMisbehaviour    = sdkerrors.Register(codespace, 9, "invalid misbehaviour")
)
