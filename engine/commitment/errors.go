package commitment

import sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

const codespace = "commitment"

var (
	ErrInvalidProof       = sdkerrors.Register(codespace, 1, "invalid proof")
	ErrInvalidPrefix      = sdkerrors.Register(codespace, 2, "invalid prefix")
	ErrInvalidMerkleProof = sdkerrors.Register(codespace, 3, "invalid merkle proof")
)
