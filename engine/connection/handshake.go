package connection

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Handshake handlers follow the validate/execute split: validate proves
// everything against a read-only view, execute applies the already-proven
// transition. Each step checks the exact prior state it expects; a handshake
// step arriving twice, or against the wrong phase, fails validation.

// OpenInitResult carries the validated inputs of a handshake start.
type OpenInitResult struct {
	ClientID     string
	Counterparty Counterparty
	Versions     []*Version
	DelayPeriod  uint64
}

// OpenInitValidate checks the client backing the new connection is active
// and resolves the version proposal.
func (k Keeper) OpenInitValidate(r state.Reader, msg *MsgConnectionOpenInit) (*OpenInitResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.clientKeeper.ActiveClient(r, msg.ClientID); err != nil {
		return nil, err
	}

	versions := GetCompatibleVersions()
	if msg.Version != nil {
		if !IsSupportedVersion(GetCompatibleVersions(), msg.Version) {
			return nil, sdkerrors.Wrap(ErrInvalidVersion, "proposed version is not supported")
		}
		versions = []*Version{msg.Version}
	}

	return &OpenInitResult{
		ClientID:     msg.ClientID,
		Counterparty: msg.Counterparty,
		Versions:     versions,
		DelayPeriod:  msg.DelayPeriod,
	}, nil
}

// OpenInitExecute allocates the connection id and stores the INIT end.
func (k Keeper) OpenInitExecute(w state.Writer, res *OpenInitResult) ([]types.Event, error) {
	connectionID, err := k.allocateConnectionID(w)
	if err != nil {
		return nil, err
	}

	connection := NewConnectionEnd(INIT, res.ClientID, res.Counterparty, res.Versions, res.DelayPeriod)
	if err := k.SetConnection(w, connectionID, connection); err != nil {
		return nil, err
	}

	k.log.Info("connection open init",
		zap.String("connection_id", connectionID),
		zap.String("client_id", res.ClientID),
	)

	return []types.Event{types.NewEvent(EventTypeConnectionOpenInit,
		types.NewAttribute(AttributeKeyConnectionID, connectionID),
		types.NewAttribute(AttributeKeyClientID, res.ClientID),
		types.NewAttribute(AttributeKeyCounterpartyClientID, res.Counterparty.ClientID),
	)}, nil
}

// OpenTryResult carries the validated inputs of a handshake response.
type OpenTryResult struct {
	ClientID     string
	Counterparty Counterparty
	Version      *Version
	DelayPeriod  uint64
}

// OpenTryValidate proves the counterparty's INIT end and its view of this
// chain, and negotiates the connection version.
func (k Keeper) OpenTryValidate(r state.Reader, msg *MsgConnectionOpenTry) (*OpenTryResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.clientKeeper.ActiveClient(r, msg.ClientID); err != nil {
		return nil, err
	}

	version, err := PickVersion(GetCompatibleVersions(), msg.CounterpartyVersions)
	if err != nil {
		return nil, err
	}

	// the connection end is not yet stored; a transient end carrying the
	// client and counterparty drives proof verification
	connection := NewConnectionEnd(TRYOPEN, msg.ClientID, msg.Counterparty, []*Version{version}, msg.DelayPeriod)

	// the counterparty committed an INIT end whose counterparty is us, with
	// no connection id allocated on our side yet
	expected := NewConnectionEnd(
		INIT, msg.Counterparty.ClientID,
		NewCounterparty(msg.ClientID, "", k.prefix),
		msg.CounterpartyVersions, msg.DelayPeriod,
	)
	if err := k.VerifyConnectionState(r, connection, msg.ProofHeight, msg.ProofInit, msg.Counterparty.ConnectionID, expected); err != nil {
		return nil, sdkerrors.Wrap(err, "counterparty connection verification failed")
	}
	if err := k.verifyCounterpartyView(r, connection, msg.ProofHeight, msg.ClientState, msg.ProofClient, msg.ConsensusHeight, msg.ProofConsensus); err != nil {
		return nil, err
	}

	return &OpenTryResult{
		ClientID:     msg.ClientID,
		Counterparty: msg.Counterparty,
		Version:      version,
		DelayPeriod:  msg.DelayPeriod,
	}, nil
}

// OpenTryExecute allocates the connection id and stores the TRYOPEN end.
func (k Keeper) OpenTryExecute(w state.Writer, res *OpenTryResult) ([]types.Event, error) {
	connectionID, err := k.allocateConnectionID(w)
	if err != nil {
		return nil, err
	}

	connection := NewConnectionEnd(TRYOPEN, res.ClientID, res.Counterparty, []*Version{res.Version}, res.DelayPeriod)
	if err := k.SetConnection(w, connectionID, connection); err != nil {
		return nil, err
	}

	k.log.Info("connection open try",
		zap.String("connection_id", connectionID),
		zap.String("client_id", res.ClientID),
		zap.String("counterparty_connection_id", res.Counterparty.ConnectionID),
	)

	return []types.Event{types.NewEvent(EventTypeConnectionOpenTry,
		types.NewAttribute(AttributeKeyConnectionID, connectionID),
		types.NewAttribute(AttributeKeyClientID, res.ClientID),
		types.NewAttribute(AttributeKeyCounterpartyClientID, res.Counterparty.ClientID),
		types.NewAttribute(AttributeKeyCounterpartyConnectionID, res.Counterparty.ConnectionID),
	)}, nil
}

// OpenAckResult carries the validated inputs of a handshake completion on
// the initiating chain.
type OpenAckResult struct {
	ConnectionID             string
	CounterpartyConnectionID string
	Version                  *Version
	Connection               ConnectionEnd
}

// OpenAckValidate proves the counterparty's TRYOPEN end against the local
// INIT end. Only an INIT end may be acked.
func (k Keeper) OpenAckValidate(r state.Reader, msg *MsgConnectionOpenAck) (*OpenAckResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	connection, err := k.GetConnection(r, msg.ConnectionID)
	if err != nil {
		return nil, err
	}
	if connection.State != INIT {
		return nil, sdkerrors.Wrapf(ErrInvalidConnectionState,
			"connection %s state is %s, expected %s", msg.ConnectionID, connection.State, INIT)
	}
	if !IsSupportedVersion(connection.Versions, msg.Version) {
		return nil, sdkerrors.Wrap(ErrInvalidVersion,
			"the counterparty selected a version not proposed on init")
	}
	if err := k.clientKeeper.ActiveClient(r, connection.ClientID); err != nil {
		return nil, err
	}

	expected := NewConnectionEnd(
		TRYOPEN, connection.Counterparty.ClientID,
		NewCounterparty(connection.ClientID, msg.ConnectionID, k.prefix),
		[]*Version{msg.Version}, connection.DelayPeriod,
	)
	if err := k.VerifyConnectionState(r, connection, msg.ProofHeight, msg.ProofTry, msg.CounterpartyConnectionID, expected); err != nil {
		return nil, sdkerrors.Wrap(err, "counterparty connection verification failed")
	}
	if err := k.verifyCounterpartyView(r, connection, msg.ProofHeight, msg.ClientState, msg.ProofClient, msg.ConsensusHeight, msg.ProofConsensus); err != nil {
		return nil, err
	}

	return &OpenAckResult{
		ConnectionID:             msg.ConnectionID,
		CounterpartyConnectionID: msg.CounterpartyConnectionID,
		Version:                  msg.Version,
		Connection:               connection,
	}, nil
}

// OpenAckExecute opens the local end and records the counterparty's
// connection id.
func (k Keeper) OpenAckExecute(w state.Writer, res *OpenAckResult) ([]types.Event, error) {
	connection := res.Connection
	connection.State = OPEN
	connection.Versions = []*Version{res.Version}
	connection.Counterparty.ConnectionID = res.CounterpartyConnectionID
	if err := k.SetConnection(w, res.ConnectionID, connection); err != nil {
		return nil, err
	}

	k.log.Info("connection open ack",
		zap.String("connection_id", res.ConnectionID),
		zap.String("counterparty_connection_id", res.CounterpartyConnectionID),
	)

	return []types.Event{types.NewEvent(EventTypeConnectionOpenAck,
		types.NewAttribute(AttributeKeyConnectionID, res.ConnectionID),
		types.NewAttribute(AttributeKeyClientID, connection.ClientID),
		types.NewAttribute(AttributeKeyCounterpartyClientID, connection.Counterparty.ClientID),
		types.NewAttribute(AttributeKeyCounterpartyConnectionID, res.CounterpartyConnectionID),
	)}, nil
}

// OpenConfirmResult carries the validated inputs of a handshake completion
// on the responding chain.
type OpenConfirmResult struct {
	ConnectionID string
	Connection   ConnectionEnd
}

// OpenConfirmValidate proves the counterparty opened its end. Only a
// TRYOPEN end may be confirmed.
func (k Keeper) OpenConfirmValidate(r state.Reader, msg *MsgConnectionOpenConfirm) (*OpenConfirmResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	connection, err := k.GetConnection(r, msg.ConnectionID)
	if err != nil {
		return nil, err
	}
	if connection.State != TRYOPEN {
		return nil, sdkerrors.Wrapf(ErrInvalidConnectionState,
			"connection %s state is %s, expected %s", msg.ConnectionID, connection.State, TRYOPEN)
	}

	expected := NewConnectionEnd(
		OPEN, connection.Counterparty.ClientID,
		NewCounterparty(connection.ClientID, msg.ConnectionID, k.prefix),
		connection.Versions, connection.DelayPeriod,
	)
	if err := k.VerifyConnectionState(r, connection, msg.ProofHeight, msg.ProofAck, connection.Counterparty.ConnectionID, expected); err != nil {
		return nil, sdkerrors.Wrap(err, "counterparty connection verification failed")
	}

	return &OpenConfirmResult{ConnectionID: msg.ConnectionID, Connection: connection}, nil
}

// OpenConfirmExecute opens the local end.
func (k Keeper) OpenConfirmExecute(w state.Writer, res *OpenConfirmResult) ([]types.Event, error) {
	connection := res.Connection
	connection.State = OPEN
	if err := k.SetConnection(w, res.ConnectionID, connection); err != nil {
		return nil, err
	}

	k.log.Info("connection open confirm",
		zap.String("connection_id", res.ConnectionID),
	)

	return []types.Event{types.NewEvent(EventTypeConnectionOpenConfirm,
		types.NewAttribute(AttributeKeyConnectionID, res.ConnectionID),
		types.NewAttribute(AttributeKeyClientID, connection.ClientID),
		types.NewAttribute(AttributeKeyCounterpartyClientID, connection.Counterparty.ClientID),
		types.NewAttribute(AttributeKeyCounterpartyConnectionID, connection.Counterparty.ConnectionID),
	)}, nil
}

func (k Keeper) allocateConnectionID(w state.Writer) (string, error) {
	sequence, err := k.GetNextConnectionSequence(w)
	if err != nil {
		return "", err
	}
	if err := k.SetNextConnectionSequence(w, sequence+1); err != nil {
		return "", err
	}
	return host.FormatConnectionIdentifier(sequence), nil
}
