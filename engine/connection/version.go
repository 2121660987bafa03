package connection

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-engine/engine/types"
)

// Version is a connection version: an identifier plus the channel orderings
// the connection supports.
type Version struct {
	Identifier string
	Features   []string
}

// DefaultIBCVersion is the only version currently supported. It allows both
// channel orderings.
var DefaultIBCVersion = &Version{
	Identifier: "1",
	Features:   []string{types.ORDERED.String(), types.UNORDERED.String()},
}

// NewVersion creates a connection version.
func NewVersion(identifier string, features []string) *Version {
	return &Version{Identifier: identifier, Features: features}
}

// GetCompatibleVersions returns the versions this chain supports, in
// precedence order.
func GetCompatibleVersions() []*Version {
	return []*Version{DefaultIBCVersion}
}

// ValidateVersion performs stateless validation of a version.
func ValidateVersion(version *Version) error {
	if version == nil {
		return sdkerrors.Wrap(ErrInvalidVersion, "version cannot be nil")
	}
	if version.Identifier == "" {
		return sdkerrors.Wrap(ErrInvalidVersion, "version identifier cannot be empty")
	}
	for i, feature := range version.Features {
		if feature == "" {
			return sdkerrors.Wrapf(ErrInvalidVersion, "feature at index %d cannot be empty", i)
		}
	}
	return nil
}

// IsSupportedVersion reports whether the proposed version's identifier is in
// supported and all its features are allowed by the matching entry.
func IsSupportedVersion(supported []*Version, proposed *Version) bool {
	for _, v := range supported {
		if v.Identifier != proposed.Identifier {
			continue
		}
		for _, feature := range proposed.Features {
			if !VerifySupportedFeature(v, feature) {
				return false
			}
		}
		return true
	}
	return false
}

// VerifySupportedFeature reports whether the version permits the feature.
func VerifySupportedFeature(version *Version, feature string) bool {
	for _, f := range version.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// PickVersion selects the version used by a connection from the intersection
// of locally supported and counterparty versions. Supported versions are
// tried in precedence order and the first identifier match wins; the result
// carries the feature intersection.
func PickVersion(supported, counterpartyVersions []*Version) (*Version, error) {
	for _, v := range supported {
		counterparty := findVersion(counterpartyVersions, v.Identifier)
		if counterparty == nil {
			continue
		}
		featureSet := make([]string, 0, len(v.Features))
		for _, feature := range v.Features {
			if VerifySupportedFeature(counterparty, feature) {
				featureSet = append(featureSet, feature)
			}
		}
		if len(featureSet) == 0 && len(v.Features) != 0 {
			continue
		}
		return NewVersion(v.Identifier, featureSet), nil
	}
	return nil, sdkerrors.Wrapf(ErrVersionNegotiationFailed,
		"no common version found in %v and %v", supported, counterpartyVersions)
}

func findVersion(versions []*Version, identifier string) *Version {
	for _, v := range versions {
		if v.Identifier == identifier {
			return v
		}
	}
	return nil
}
