package tendermint

import (
	"bytes"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Misbehaviour is a pair of conflicting headers proving the counterparty
// forked or its validators equivocated. Header1 is at the greater or equal
// height.
type Misbehaviour struct {
	ClientID string
	Header1  *Header
	Header2  *Header
}

var _ exported.Misbehaviour = Misbehaviour{}

// ClientType implements exported.Misbehaviour.
func (m Misbehaviour) ClientType() string { return exported.Tendermint }

// GetClientID implements exported.Misbehaviour.
func (m Misbehaviour) GetClientID() string { return m.ClientID }

// GetHeight implements exported.Misbehaviour.
func (m Misbehaviour) GetHeight() types.Height { return m.Header1.GetHeight() }

// ValidateBasic implements exported.Misbehaviour.
func (m Misbehaviour) ValidateBasic() error {
	if m.Header1 == nil || m.Header2 == nil {
		return sdkerrors.Wrap(ErrInvalidMisbehaviour, "misbehaviour headers cannot be nil")
	}
	if err := host.ClientIdentifierValidator(m.ClientID); err != nil {
		return sdkerrors.Wrap(err, "misbehaviour client id is invalid")
	}
	if err := m.Header1.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "header1 failed validation")
	}
	if err := m.Header2.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "header2 failed validation")
	}
	if m.Header1.SignedHeader.Header.ChainID != m.Header2.SignedHeader.Header.ChainID {
		return sdkerrors.Wrap(ErrInvalidMisbehaviour, "headers must have identical chain ids")
	}
	if m.Header1.GetHeight().LT(m.Header2.GetHeight()) {
		return sdkerrors.Wrapf(ErrInvalidMisbehaviour,
			"header1 height %s is less than header2 height %s", m.Header1.GetHeight(), m.Header2.GetHeight())
	}
	if m.Header1.GetHeight().EQ(m.Header2.GetHeight()) &&
		bytes.Equal(m.Header1.SignedHeader.Commit.BlockID.Hash, m.Header2.SignedHeader.Commit.BlockID.Hash) {
		return sdkerrors.Wrap(ErrInvalidMisbehaviour, "headers commit to the same block, no misbehaviour")
	}
	return nil
}
