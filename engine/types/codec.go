package types

import amino "github.com/tendermint/go-amino"

// Codec serializes state objects for the store. Client and consensus states
// are interface-typed (one concrete payload per client type), so the codec
// carries a registry mapping registered names to concrete types.
//
// Wire encoding of relayed messages is out of scope for the engine; the codec
// only fixes the byte representation of objects the engine itself stores and
// proves, which must be identical on every replica.
type Codec = amino.Codec

// NewCodec returns an empty codec. Interface and concrete registrations are
// performed by the packages owning the types (exported, lightclients/*).
func NewCodec() *Codec {
	return amino.NewCodec()
}
