package types

import "strings"

// Order defines the packet delivery discipline of a channel.
type Order int32

const (
	// NONE is the zero value, an invalid ordering.
	NONE Order = iota
	// UNORDERED channels deliver packets in any order, tracked per-sequence
	// by receipts.
	UNORDERED
	// ORDERED channels deliver packets strictly in the order they were sent.
	ORDERED
)

// String implements fmt.Stringer.
func (o Order) String() string {
	switch o {
	case UNORDERED:
		return "ORDER_UNORDERED"
	case ORDERED:
		return "ORDER_ORDERED"
	default:
		return "ORDER_NONE_UNSPECIFIED"
	}
}

// OrderFromString parses an ordering in either the wire form
// ("ORDER_ORDERED") or the short form ("ordered"). Unknown input maps to NONE.
func OrderFromString(s string) Order {
	switch strings.ToUpper(strings.TrimPrefix(strings.ToUpper(s), "ORDER_")) {
	case "ORDERED":
		return ORDERED
	case "UNORDERED":
		return UNORDERED
	default:
		return NONE
	}
}
