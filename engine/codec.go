package engine

import (
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/lightclients/mock"
	"github.com/cosmos/ibc-engine/engine/lightclients/tendermint"
	"github.com/cosmos/ibc-engine/engine/types"
)

// NewDefaultCodec returns a codec with the exported interfaces and the
// bundled light-client payloads registered.
func NewDefaultCodec() *types.Codec {
	cdc := types.NewCodec()
	exported.RegisterCodec(cdc)
	tendermint.RegisterCodec(cdc)
	mock.RegisterCodec(cdc)
	return cdc
}
