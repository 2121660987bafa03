package tendermint

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	tmtypes "github.com/tendermint/tendermint/types"

	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Header is a signed tendermint header together with the trusted height and
// validator set the verifier should bisect from.
type Header struct {
	SignedHeader      *tmtypes.SignedHeader
	ValidatorSet      *tmtypes.ValidatorSet
	TrustedHeight     types.Height
	TrustedValidators *tmtypes.ValidatorSet
}

var _ exported.Header = Header{}

// ClientType implements exported.Header.
func (h Header) ClientType() string { return exported.Tendermint }

// GetHeight implements exported.Header. The revision number is parsed from
// the chain id carried in the signed header.
func (h Header) GetHeight() types.Height {
	revision := types.ParseChainID(h.SignedHeader.Header.ChainID)
	return types.NewHeight(revision, uint64(h.SignedHeader.Header.Height))
}

// GetTime returns the block time of the header.
func (h Header) GetTime() int64 { return h.SignedHeader.Header.Time.UnixNano() }

// ConsensusState returns the consensus state introduced by the header.
func (h Header) ConsensusState() ConsensusState {
	return ConsensusState{
		Timestamp:          h.SignedHeader.Header.Time,
		Root:               commitment.NewMerkleRoot(h.SignedHeader.Header.AppHash),
		NextValidatorsHash: h.SignedHeader.Header.NextValidatorsHash,
	}
}

// ValidateBasic implements exported.Header.
func (h Header) ValidateBasic() error {
	if h.SignedHeader == nil {
		return sdkerrors.Wrap(ErrInvalidHeader, "tendermint signed header cannot be nil")
	}
	if h.SignedHeader.Header == nil {
		return sdkerrors.Wrap(ErrInvalidHeader, "tendermint header cannot be nil")
	}
	if err := h.SignedHeader.ValidateBasic(h.SignedHeader.Header.ChainID); err != nil {
		return sdkerrors.Wrap(ErrInvalidHeader, err.Error())
	}
	if h.ValidatorSet == nil {
		return sdkerrors.Wrap(ErrInvalidValidatorSet, "validator set cannot be nil")
	}
	if h.TrustedHeight.IsZero() {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "trusted height cannot be zero")
	}
	if h.TrustedValidators == nil {
		return sdkerrors.Wrap(ErrInvalidValidatorSet, "trusted validator set cannot be nil")
	}
	if !h.GetHeight().GT(h.TrustedHeight) {
		return sdkerrors.Wrapf(ErrInvalidHeader,
			"header height %s must be greater than trusted height %s", h.GetHeight(), h.TrustedHeight)
	}
	return nil
}
