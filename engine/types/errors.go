package types

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

// Shared sentinel errors, codespace "engine". Subsystem errors live in their
// own packages under the "client", "connection", "channel" and "commitment"
// codespaces.
var (
	ErrInvalidHeight    = sdkerrors.Register(EngineCodespace, 1, "invalid height")
	ErrInvalidVersion   = sdkerrors.Register(EngineCodespace, 2, "invalid version")
	ErrInvalidOrdering  = sdkerrors.Register(EngineCodespace, 3, "invalid channel ordering")
	ErrUnknownMessage   = sdkerrors.Register(EngineCodespace, 4, "unknown message type")
	ErrUnboundPort      = sdkerrors.Register(EngineCodespace, 5, "no application bound to port")
	ErrInvariantBroken  = sdkerrors.Register(EngineCodespace, 6, "state invariant violated during execute")
	ErrInvalidTimestamp = sdkerrors.Register(EngineCodespace, 7, "invalid timestamp")
)

// EngineCodespace is the codespace for errors raised by the engine itself
// rather than one of its subsystems.
const EngineCodespace = "engine"
