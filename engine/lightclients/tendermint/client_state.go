// Package tendermint implements the light client tracking chains running
// the Tendermint consensus algorithm. Header and misbehaviour verification
// delegate to the tendermint light package; membership proofs are chained
// ICS-23 proofs against the consensus state's app hash.
package tendermint

import (
	"time"

	ics23 "github.com/confio/ics23/go"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	tmmath "github.com/tendermint/tendermint/libs/math"
	"github.com/tendermint/tendermint/light"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Fraction is the client's trust level: the fraction of the last trusted
// validator set that must have signed a new header.
type Fraction struct {
	Numerator   uint64
	Denominator uint64
}

// DefaultTrustLevel is the light client default, 1/3.
var DefaultTrustLevel = NewFractionFromTm(light.DefaultTrustLevel)

// NewFractionFromTm converts a tendermint math fraction.
func NewFractionFromTm(f tmmath.Fraction) Fraction {
	return Fraction{Numerator: f.Numerator, Denominator: f.Denominator}
}

// ToTendermint converts to the tendermint math fraction consumed by the
// light package.
func (f Fraction) ToTendermint() tmmath.Fraction {
	return tmmath.Fraction{Numerator: f.Numerator, Denominator: f.Denominator}
}

// ClientState is the tendermint client configuration and frozen marker.
type ClientState struct {
	ChainID         string
	TrustLevel      Fraction
	TrustingPeriod  time.Duration
	UnbondingPeriod time.Duration
	MaxClockDrift   time.Duration
	LatestHeight    types.Height
	FrozenHeight    types.Height
	ProofSpecs      []*ics23.ProofSpec
	UpgradePath     []string
}

var _ exported.ClientState = ClientState{}

// NewClientState creates a new tendermint client state.
func NewClientState(
	chainID string, trustLevel Fraction,
	trustingPeriod, unbondingPeriod, maxClockDrift time.Duration,
	latestHeight types.Height, specs []*ics23.ProofSpec, upgradePath []string,
) ClientState {
	return ClientState{
		ChainID:         chainID,
		TrustLevel:      trustLevel,
		TrustingPeriod:  trustingPeriod,
		UnbondingPeriod: unbondingPeriod,
		MaxClockDrift:   maxClockDrift,
		LatestHeight:    latestHeight,
		FrozenHeight:    types.ZeroHeight(),
		ProofSpecs:      specs,
		UpgradePath:     upgradePath,
	}
}

// ClientType implements exported.ClientState.
func (cs ClientState) ClientType() string { return exported.Tendermint }

// GetLatestHeight implements exported.ClientState.
func (cs ClientState) GetLatestHeight() types.Height { return cs.LatestHeight }

// GetFrozenHeight implements exported.ClientState.
func (cs ClientState) GetFrozenHeight() types.Height { return cs.FrozenHeight }

// IsFrozen implements exported.ClientState.
func (cs ClientState) IsFrozen() bool { return !cs.FrozenHeight.IsZero() }

// Validate implements exported.ClientState.
func (cs ClientState) Validate() error {
	if len(cs.ChainID) == 0 {
		return sdkerrors.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}
	if err := light.ValidateTrustLevel(cs.TrustLevel.ToTendermint()); err != nil {
		return sdkerrors.Wrap(ErrInvalidTrustLevel, err.Error())
	}
	if cs.TrustingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.UnbondingPeriod <= 0 {
		return sdkerrors.Wrap(ErrInvalidUnbondingPeriod, "unbonding period must be greater than zero")
	}
	if cs.MaxClockDrift <= 0 {
		return sdkerrors.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}
	if cs.TrustingPeriod >= cs.UnbondingPeriod {
		return sdkerrors.Wrapf(ErrInvalidTrustingPeriod,
			"trusting period (%s) should be < unbonding period (%s)", cs.TrustingPeriod, cs.UnbondingPeriod)
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(types.ErrInvalidHeight, "tendermint client's latest height revision height cannot be zero")
	}
	if cs.LatestHeight.RevisionNumber != types.ParseChainID(cs.ChainID) {
		return sdkerrors.Wrapf(types.ErrInvalidHeight,
			"latest height revision number must match chain id revision number (%d != %d)",
			cs.LatestHeight.RevisionNumber, types.ParseChainID(cs.ChainID))
	}
	if len(cs.ProofSpecs) == 0 {
		return sdkerrors.Wrap(ErrInvalidProofSpecs, "proof specs cannot be nil for tm client")
	}
	for i, spec := range cs.ProofSpecs {
		if spec == nil {
			return sdkerrors.Wrapf(ErrInvalidProofSpecs, "proof spec cannot be nil at index: %d", i)
		}
	}
	// upgrade path may be empty, but no key may be an empty string
	for i, k := range cs.UpgradePath {
		if len(k) == 0 {
			return sdkerrors.Wrapf(client.ErrInvalidClientType, "upgrade path key at index %d cannot be empty", i)
		}
	}
	return nil
}

// expired reports whether the latest consensus state is outside the
// trusting period as of now.
func (cs ClientState) expired(latestTimestamp time.Time, now time.Time) bool {
	expirationTime := latestTimestamp.Add(cs.TrustingPeriod)
	return !expirationTime.After(now)
}
