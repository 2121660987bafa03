package client

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

const codespace = "client"

var (
	ErrClientExists                    = sdkerrors.Register(codespace, 1, "light client already exists")
	ErrClientNotFound                  = sdkerrors.Register(codespace, 2, "light client not found")
	ErrClientFrozen                    = sdkerrors.Register(codespace, 3, "light client is frozen due to misbehaviour")
	ErrConsensusStateNotFound          = sdkerrors.Register(codespace, 4, "consensus state not found")
	ErrInvalidConsensus                = sdkerrors.Register(codespace, 5, "invalid consensus state")
	ErrClientTypeNotFound              = sdkerrors.Register(codespace, 6, "client type not found")
	ErrInvalidClientType               = sdkerrors.Register(codespace, 7, "invalid client type")
	ErrRootNotFound                    = sdkerrors.Register(codespace, 8, "commitment root not found")
	ErrInvalidHeader                   = sdkerrors.Register(codespace, 9, "invalid block header")
	ErrInvalidMisbehaviour             = sdkerrors.Register(codespace, 10, "invalid light client misbehaviour")
	ErrHeaderVerification              = sdkerrors.Register(codespace, 11, "header verification failed")
	ErrMisbehaviourVerification        = sdkerrors.Register(codespace, 12, "misbehaviour verification failed")
	ErrFailedMembershipVerification    = sdkerrors.Register(codespace, 13, "membership verification failed")
	ErrFailedNonMembershipVerification = sdkerrors.Register(codespace, 14, "non-membership verification failed")
	ErrClientNotActive                 = sdkerrors.Register(codespace, 15, "client is not active")
	ErrSelfClientValidation            = sdkerrors.Register(codespace, 16, "self client validation failed")
)
