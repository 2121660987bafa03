package types

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Height is the chain's proof-addressable clock: a revision number that bumps
// on chain upgrades, and a block height that resets to 1 on every bump.
// Heights are totally ordered by (RevisionNumber, RevisionHeight).
type Height struct {
	RevisionNumber uint64 `json:"revision_number"`
	RevisionHeight uint64 `json:"revision_height"`
}

// NewHeight returns a height with the given revision number and height.
func NewHeight(revisionNumber, revisionHeight uint64) Height {
	return Height{
		RevisionNumber: revisionNumber,
		RevisionHeight: revisionHeight,
	}
}

// ZeroHeight returns the uninitialized height. A zero height on a packet
// timeout means "no height bound".
func ZeroHeight() Height {
	return Height{}
}

// GetRevisionNumber returns the height's revision number.
func (h Height) GetRevisionNumber() uint64 { return h.RevisionNumber }

// GetRevisionHeight returns the height's revision height.
func (h Height) GetRevisionHeight() uint64 { return h.RevisionHeight }

// Compare returns -1, 0 or 1 when h is less than, equal to, or greater
// than other. Revision number takes precedence over revision height.
func (h Height) Compare(other Height) int64 {
	var a, b uint64
	if h.RevisionNumber != other.RevisionNumber {
		a, b = h.RevisionNumber, other.RevisionNumber
	} else {
		a, b = h.RevisionHeight, other.RevisionHeight
	}

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// LT returns true if h is strictly less than other.
func (h Height) LT(other Height) bool { return h.Compare(other) == -1 }

// LTE returns true if h is less than or equal to other.
func (h Height) LTE(other Height) bool { return h.Compare(other) <= 0 }

// GT returns true if h is strictly greater than other.
func (h Height) GT(other Height) bool { return h.Compare(other) == 1 }

// GTE returns true if h is greater than or equal to other.
func (h Height) GTE(other Height) bool { return h.Compare(other) >= 0 }

// EQ returns true if h equals other.
func (h Height) EQ(other Height) bool { return h.Compare(other) == 0 }

// IsZero returns true if both the revision number and height are zero.
func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Increment returns the height with the revision height incremented by one.
func (h Height) Increment() Height {
	return NewHeight(h.RevisionNumber, h.RevisionHeight+1)
}

// Decrement returns the height with the revision height decremented by one,
// and false if the height cannot be decremented within its revision.
func (h Height) Decrement() (Height, bool) {
	if h.RevisionHeight == 0 {
		return ZeroHeight(), false
	}
	return NewHeight(h.RevisionNumber, h.RevisionHeight-1), true
}

func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}

// ParseHeight parses a height from the canonical
// "{revision number}-{revision height}" string.
func ParseHeight(s string) (Height, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return ZeroHeight(), sdkerrors.Wrapf(ErrInvalidHeight, "expected height format '{revision}-{height}', got %q", s)
	}

	revisionNumber, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return ZeroHeight(), sdkerrors.Wrapf(ErrInvalidHeight, "invalid revision number %q: %v", parts[0], err)
	}

	revisionHeight, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return ZeroHeight(), sdkerrors.Wrapf(ErrInvalidHeight, "invalid revision height %q: %v", parts[1], err)
	}

	return NewHeight(revisionNumber, revisionHeight), nil
}

// MinHeight returns the lesser of two heights.
func MinHeight(h1, h2 Height) Height {
	if h1.LT(h2) {
		return h1
	}
	return h2
}

// MaxHeight returns the upper bound of the height space, used to express
// "no retention limit" style comparisons.
func MaxHeight() Height {
	return NewHeight(math.MaxUint64, math.MaxUint64)
}

// IsRevisionFormat checks that the chain id matches the "{name}-{revision}"
// convention from which a height's revision number is derived.
var IsRevisionFormat = regexp.MustCompile(`^.*[^\n-]-{1}[1-9][0-9]*$`).MatchString

// ParseChainID extracts the revision number from a chain id. Chain ids
// that do not follow the revision convention are revision 0.
func ParseChainID(chainID string) uint64 {
	if !IsRevisionFormat(chainID) {
		return 0
	}

	split := strings.Split(chainID, "-")
	revision, err := strconv.ParseUint(split[len(split)-1], 10, 64)
	if err != nil {
		return 0
	}
	return revision
}
