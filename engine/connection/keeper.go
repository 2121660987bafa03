package connection

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// SelfClientValidator checks that a client state the counterparty runs for
// this chain is an acceptable view of it.
type SelfClientValidator func(exported.ClientState) error

// SelfConsensusStateFn returns this chain's own consensus state at a past
// height, used to check what the counterparty claims to trust about us.
type SelfConsensusStateFn func(types.Height) (exported.ConsensusState, error)

// Keeper manages connection ends and exposes counterparty state verification
// to the channel and packet subsystems.
type Keeper struct {
	cdc          *types.Codec
	clientKeeper client.Keeper
	log          *zap.Logger

	// prefix is the commitment prefix under which this chain stores its
	// provable state. Counterparties verify our proofs under it.
	prefix commitment.MerklePrefix

	selfClientValidator SelfClientValidator
	selfConsensusState  SelfConsensusStateFn

	// expectedTimePerBlock, in nanoseconds, converts a connection's time
	// delay into an equivalent block delay. Zero disables the block delay.
	expectedTimePerBlock uint64
}

// NewKeeper constructs a connection keeper.
func NewKeeper(
	cdc *types.Codec, clientKeeper client.Keeper, prefix commitment.MerklePrefix,
	selfClientValidator SelfClientValidator, selfConsensusState SelfConsensusStateFn,
	expectedTimePerBlock uint64, log *zap.Logger,
) Keeper {
	return Keeper{
		cdc:                  cdc,
		clientKeeper:         clientKeeper,
		log:                  log,
		prefix:               prefix,
		selfClientValidator:  selfClientValidator,
		selfConsensusState:   selfConsensusState,
		expectedTimePerBlock: expectedTimePerBlock,
	}
}

// GetCommitmentPrefix returns the prefix this chain stores provable state
// under.
func (k Keeper) GetCommitmentPrefix() commitment.MerklePrefix { return k.prefix }

// ClientKeeper returns the underlying client keeper.
func (k Keeper) ClientKeeper() client.Keeper { return k.clientKeeper }

// GetConnection returns the stored connection end.
func (k Keeper) GetConnection(r state.Reader, connectionID string) (ConnectionEnd, error) {
	bz, err := r.Get(host.ConnectionPath(connectionID))
	if err != nil {
		return ConnectionEnd{}, err
	}
	if bz == nil {
		return ConnectionEnd{}, sdkerrors.Wrap(ErrConnectionNotFound, connectionID)
	}
	var connection ConnectionEnd
	if err := k.cdc.UnmarshalBinaryBare(bz, &connection); err != nil {
		return ConnectionEnd{}, sdkerrors.Wrapf(ErrConnectionNotFound, "could not decode connection %s: %v", connectionID, err)
	}
	return connection, nil
}

// SetConnection stores a connection end.
func (k Keeper) SetConnection(w state.Writer, connectionID string, connection ConnectionEnd) error {
	bz, err := k.cdc.MarshalBinaryBare(connection)
	if err != nil {
		return err
	}
	return w.Set(host.ConnectionPath(connectionID), bz)
}

// HasConnection reports whether a connection exists.
func (k Keeper) HasConnection(r state.Reader, connectionID string) (bool, error) {
	return r.Has(host.ConnectionPath(connectionID))
}

// GetNextConnectionSequence returns the counter used to allocate connection
// ids.
func (k Keeper) GetNextConnectionSequence(r state.Reader) (uint64, error) {
	bz, err := r.Get(host.KeyNextConnectionSequence)
	if err != nil {
		return 0, err
	}
	if bz == nil {
		return 0, nil
	}
	return sdk.BigEndianToUint64(bz), nil
}

// SetNextConnectionSequence stores the connection id allocation counter.
func (k Keeper) SetNextConnectionSequence(w state.Writer, sequence uint64) error {
	return w.Set(host.KeyNextConnectionSequence, sdk.Uint64ToBigEndian(sequence))
}

// OpenConnection returns the connection end if it exists and is OPEN. The
// packet subsystem only operates over open connections.
func (k Keeper) OpenConnection(r state.Reader, connectionID string) (ConnectionEnd, error) {
	connection, err := k.GetConnection(r, connectionID)
	if err != nil {
		return ConnectionEnd{}, err
	}
	if connection.State != OPEN {
		return ConnectionEnd{}, sdkerrors.Wrapf(ErrInvalidConnectionState,
			"connection %s state is %s, expected %s", connectionID, connection.State, OPEN)
	}
	return connection, nil
}

// GetTimestampAtHeight returns the counterparty block time, in nanoseconds,
// trusted by the connection's client at the given height.
func (k Keeper) GetTimestampAtHeight(r state.Reader, connection ConnectionEnd, height types.Height) (uint64, error) {
	return k.clientKeeper.GetTimestampAtHeight(r, connection.ClientID, height)
}

// blockDelay converts the connection's time delay into a block delay using
// the expected block time, rounding up.
func (k Keeper) blockDelay(connection ConnectionEnd) uint64 {
	if k.expectedTimePerBlock == 0 {
		return 0
	}
	return (connection.DelayPeriod + k.expectedTimePerBlock - 1) / k.expectedTimePerBlock
}

// VerifyMembership verifies, through the connection's client, a proof that
// value is stored under path on the counterparty. The counterparty's
// commitment prefix is applied to the path.
func (k Keeper) VerifyMembership(r state.Reader, connection ConnectionEnd, height types.Height, proof []byte, path string, value []byte) error {
	merklePath, err := commitment.ApplyPrefix(connection.Counterparty.Prefix, path)
	if err != nil {
		return err
	}
	return k.clientKeeper.VerifyMembership(
		r, connection.ClientID, height,
		connection.DelayPeriod, k.blockDelay(connection),
		proof, merklePath, value,
	)
}

// VerifyNonMembership verifies, through the connection's client, a proof
// that nothing is stored under path on the counterparty.
func (k Keeper) VerifyNonMembership(r state.Reader, connection ConnectionEnd, height types.Height, proof []byte, path string) error {
	merklePath, err := commitment.ApplyPrefix(connection.Counterparty.Prefix, path)
	if err != nil {
		return err
	}
	return k.clientKeeper.VerifyNonMembership(
		r, connection.ClientID, height,
		connection.DelayPeriod, k.blockDelay(connection),
		proof, merklePath,
	)
}

// VerifyConnectionState verifies a proof of the counterparty's record of the
// connection under its own id.
func (k Keeper) VerifyConnectionState(r state.Reader, connection ConnectionEnd, height types.Height, proof []byte, connectionID string, expected ConnectionEnd) error {
	bz, err := k.cdc.MarshalBinaryBare(expected)
	if err != nil {
		return err
	}
	return k.VerifyMembership(r, connection, height, proof, host.ConnectionPath(connectionID), bz)
}

// VerifyClientState verifies a proof of the client state the counterparty
// runs for this chain.
func (k Keeper) VerifyClientState(r state.Reader, connection ConnectionEnd, height types.Height, proof []byte, clientState exported.ClientState) error {
	bz, err := k.cdc.MarshalBinaryBare(clientState)
	if err != nil {
		return err
	}
	return k.VerifyMembership(r, connection, height, proof, host.FullClientStatePath(connection.Counterparty.ClientID), bz)
}

// VerifyClientConsensusState verifies a proof of a consensus state the
// counterparty's client for this chain has stored.
func (k Keeper) VerifyClientConsensusState(r state.Reader, connection ConnectionEnd, height, consensusHeight types.Height, proof []byte, consensusState exported.ConsensusState) error {
	bz, err := k.cdc.MarshalBinaryBare(consensusState)
	if err != nil {
		return err
	}
	return k.VerifyMembership(r, connection, height, proof, host.FullConsensusStatePath(connection.Counterparty.ClientID, consensusHeight), bz)
}

// verifyCounterpartyView checks that the client and consensus state the
// counterparty claims to run for this chain are valid views of it, then
// verifies the proofs of both.
func (k Keeper) verifyCounterpartyView(
	r state.Reader, connection ConnectionEnd, proofHeight types.Height,
	clientState exported.ClientState, proofClient []byte,
	consensusHeight types.Height, proofConsensus []byte,
) error {
	if err := k.selfClientValidator(clientState); err != nil {
		return sdkerrors.Wrapf(client.ErrSelfClientValidation, "%v", err)
	}
	expectedConsensus, err := k.selfConsensusState(consensusHeight)
	if err != nil {
		return sdkerrors.Wrapf(ErrSelfConsensusNotFound, "height %s: %v", consensusHeight, err)
	}
	if err := k.VerifyClientState(r, connection, proofHeight, proofClient, clientState); err != nil {
		return sdkerrors.Wrap(err, "counterparty client state verification failed")
	}
	if err := k.VerifyClientConsensusState(r, connection, proofHeight, consensusHeight, proofConsensus, expectedConsensus); err != nil {
		return sdkerrors.Wrap(err, "counterparty consensus state verification failed")
	}
	return nil
}
