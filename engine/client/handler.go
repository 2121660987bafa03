package client

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Handlers are split into a validate phase (pure function of state and
// message, all verification) and an execute phase (applies the mutation
// implied by a prior successful validate). Execute consumes the validated
// result, never the raw message.

// CreateClientResult carries the validated inputs of a client creation.
type CreateClientResult struct {
	ClientState    exported.ClientState
	ConsensusState exported.ConsensusState
}

// CreateClientValidate checks that the supplied states are well-formed per
// their client-type rules and that the type is routable.
func (k Keeper) CreateClientValidate(r state.Reader, msg *MsgCreateClient) (*CreateClientResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if !k.router.HasRoute(msg.ClientState.ClientType()) {
		return nil, sdkerrors.Wrap(ErrClientTypeNotFound, msg.ClientState.ClientType())
	}
	if msg.ClientState.IsFrozen() {
		return nil, sdkerrors.Wrap(ErrInvalidClientType, "cannot create a frozen client")
	}
	return &CreateClientResult{
		ClientState:    msg.ClientState,
		ConsensusState: msg.ConsensusState,
	}, nil
}

// CreateClientExecute allocates the client identifier and stores the client
// and its initial consensus state.
func (k Keeper) CreateClientExecute(w state.Writer, res *CreateClientResult) ([]types.Event, error) {
	clientType := res.ClientState.ClientType()
	module, err := k.router.GetRoute(clientType)
	if err != nil {
		return nil, err
	}

	sequence, err := k.GetNextClientSequence(w)
	if err != nil {
		return nil, err
	}
	clientID := host.FormatClientIdentifier(clientType, sequence)
	if err := k.SetNextClientSequence(w, sequence+1); err != nil {
		return nil, err
	}

	if err := k.SetClientState(w, clientID, res.ClientState); err != nil {
		return nil, err
	}
	if err := module.Initialize(w, k.cdc, clientID, res.ClientState, res.ConsensusState, k.hostHeight(), k.hostTime()); err != nil {
		return nil, err
	}

	k.log.Info("client created",
		zap.String("client_id", clientID),
		zap.String("client_type", clientType),
		zap.String("height", res.ClientState.GetLatestHeight().String()),
	)

	return []types.Event{types.NewEvent(EventTypeCreateClient,
		types.NewAttribute(AttributeKeyClientID, clientID),
		types.NewAttribute(AttributeKeyClientType, clientType),
		types.NewAttribute(AttributeKeyConsensusHeight, res.ClientState.GetLatestHeight().String()),
	)}, nil
}

// UpdateClientResult carries a verified header ready to be applied.
type UpdateClientResult struct {
	ClientID   string
	ClientType string
	Header     exported.Header

	// NoOp marks the idempotent re-submission of a header whose consensus
	// state is already stored with identical content.
	NoOp bool
}

// UpdateClientValidate verifies the header against the client's trusted
// state. A header conflicting with a consensus state already stored at its
// height fails verification; re-submitting an identical header validates as
// a no-op.
func (k Keeper) UpdateClientValidate(r state.Reader, msg *MsgUpdateClient) (*UpdateClientResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	module, clientState, err := k.RouteForClient(r, msg.ClientID)
	if err != nil {
		return nil, err
	}
	if clientState.IsFrozen() {
		return nil, sdkerrors.Wrap(ErrClientFrozen, msg.ClientID)
	}
	if clientState.ClientType() != msg.Header.ClientType() {
		return nil, sdkerrors.Wrapf(ErrInvalidHeader, "header type %s does not match client type %s",
			msg.Header.ClientType(), clientState.ClientType())
	}

	if err := module.VerifyHeader(r, k.cdc, msg.ClientID, msg.Header, k.hostTime()); err != nil {
		return nil, sdkerrors.Wrapf(ErrHeaderVerification, "client %s: %v", msg.ClientID, err)
	}

	conflict, err := module.CheckForMisbehaviour(r, k.cdc, msg.ClientID, msg.Header)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, sdkerrors.Wrapf(ErrHeaderVerification,
			"client %s already has a different consensus state at height %s", msg.ClientID, msg.Header.GetHeight())
	}

	exists, err := k.HasConsensusState(r, msg.ClientID, msg.Header.GetHeight())
	if err != nil {
		return nil, err
	}

	return &UpdateClientResult{
		ClientID:   msg.ClientID,
		ClientType: clientState.ClientType(),
		Header:     msg.Header,
		NoOp:       exists,
	}, nil
}

// UpdateClientExecute stores the new consensus state and advances the
// client's latest height.
func (k Keeper) UpdateClientExecute(w state.Writer, res *UpdateClientResult) ([]types.Event, error) {
	consensusHeight := res.Header.GetHeight()

	if !res.NoOp {
		module, err := k.router.GetRoute(res.ClientType)
		if err != nil {
			return nil, err
		}
		consensusHeight, err = module.UpdateState(w, k.cdc, res.ClientID, res.Header, k.hostHeight(), k.hostTime())
		if err != nil {
			return nil, err
		}
	}

	k.log.Debug("client updated",
		zap.String("client_id", res.ClientID),
		zap.String("consensus_height", consensusHeight.String()),
		zap.Bool("no_op", res.NoOp),
	)

	return []types.Event{types.NewEvent(EventTypeUpdateClient,
		types.NewAttribute(AttributeKeyClientID, res.ClientID),
		types.NewAttribute(AttributeKeyClientType, res.ClientType),
		types.NewAttribute(AttributeKeyConsensusHeight, consensusHeight.String()),
	)}, nil
}

// MisbehaviourResult carries verified freezing evidence.
type MisbehaviourResult struct {
	ClientID     string
	ClientType   string
	Misbehaviour exported.Misbehaviour
}

// SubmitMisbehaviourValidate asks the light client whether the evidence
// proves a fork or equivocation.
func (k Keeper) SubmitMisbehaviourValidate(r state.Reader, msg *MsgSubmitMisbehaviour) (*MisbehaviourResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	module, clientState, err := k.RouteForClient(r, msg.ClientID)
	if err != nil {
		return nil, err
	}
	if clientState.IsFrozen() {
		return nil, sdkerrors.Wrap(ErrClientFrozen, msg.ClientID)
	}
	if clientState.ClientType() != msg.Misbehaviour.ClientType() {
		return nil, sdkerrors.Wrapf(ErrInvalidMisbehaviour, "misbehaviour type %s does not match client type %s",
			msg.Misbehaviour.ClientType(), clientState.ClientType())
	}

	if err := module.VerifyMisbehaviour(r, k.cdc, msg.ClientID, msg.Misbehaviour, k.hostTime()); err != nil {
		return nil, sdkerrors.Wrapf(ErrMisbehaviourVerification, "client %s: %v", msg.ClientID, err)
	}

	return &MisbehaviourResult{
		ClientID:     msg.ClientID,
		ClientType:   clientState.ClientType(),
		Misbehaviour: msg.Misbehaviour,
	}, nil
}

// SubmitMisbehaviourExecute freezes the client at the evidence height. A
// frozen height, once set, is never unset.
func (k Keeper) SubmitMisbehaviourExecute(w state.Writer, res *MisbehaviourResult) ([]types.Event, error) {
	module, err := k.router.GetRoute(res.ClientType)
	if err != nil {
		return nil, err
	}
	if err := module.UpdateStateOnMisbehaviour(w, k.cdc, res.ClientID, res.Misbehaviour); err != nil {
		return nil, err
	}

	k.log.Warn("client frozen due to misbehaviour",
		zap.String("client_id", res.ClientID),
		zap.String("height", res.Misbehaviour.GetHeight().String()),
	)

	return []types.Event{types.NewEvent(EventTypeSubmitMisbehaviour,
		types.NewAttribute(AttributeKeyClientID, res.ClientID),
		types.NewAttribute(AttributeKeyClientType, res.ClientType),
		types.NewAttribute(AttributeKeyConsensusHeight, res.Misbehaviour.GetHeight().String()),
	)}, nil
}
