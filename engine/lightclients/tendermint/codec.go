package tendermint

import (
	"github.com/tendermint/tendermint/crypto"
	"github.com/tendermint/tendermint/crypto/ed25519"
	"github.com/tendermint/tendermint/crypto/secp256k1"

	"github.com/cosmos/ibc-engine/engine/types"
)

// RegisterCodec registers the tendermint payloads on the state codec. The
// validator public keys embedded in headers need concrete registrations of
// their own.
func RegisterCodec(cdc *types.Codec) {
	cdc.RegisterConcrete(ClientState{}, "ibc/lightclients/tendermint/ClientState", nil)
	cdc.RegisterConcrete(ConsensusState{}, "ibc/lightclients/tendermint/ConsensusState", nil)
	cdc.RegisterConcrete(Header{}, "ibc/lightclients/tendermint/Header", nil)
	cdc.RegisterConcrete(Misbehaviour{}, "ibc/lightclients/tendermint/Misbehaviour", nil)

	cdc.RegisterInterface((*crypto.PubKey)(nil), nil)
	cdc.RegisterConcrete(ed25519.PubKey{}, "tendermint/PubKeyEd25519", nil)
	cdc.RegisterConcrete(secp256k1.PubKey{}, "tendermint/PubKeySecp256k1", nil)
}
