package channel

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/connection"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// OpenInitResult carries the validated inputs of a channel handshake start.
type OpenInitResult struct {
	PortID  string
	Channel ChannelEnd
}

// OpenInitValidate checks the port is bound and the underlying connection
// supports the requested ordering.
func (k Keeper) OpenInitValidate(r state.Reader, msg *MsgChannelOpenInit) (*OpenInitResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if !k.IsBound(msg.PortID) {
		return nil, sdkerrors.Wrap(types.ErrUnboundPort, msg.PortID)
	}
	if err := k.checkConnectionOrdering(r, msg.Channel); err != nil {
		return nil, err
	}
	return &OpenInitResult{PortID: msg.PortID, Channel: msg.Channel}, nil
}

// OpenInitExecute allocates the channel id, stores the INIT end and starts
// the sequence counters at 1.
func (k Keeper) OpenInitExecute(w state.Writer, res *OpenInitResult) ([]types.Event, error) {
	channelID, err := k.allocateChannelID(w)
	if err != nil {
		return nil, err
	}
	if err := k.storeNewChannel(w, res.PortID, channelID, res.Channel); err != nil {
		return nil, err
	}

	k.log.Info("channel open init",
		zap.String("port_id", res.PortID),
		zap.String("channel_id", channelID),
		zap.String("connection_id", res.Channel.ConnectionID()),
	)

	return []types.Event{types.NewEvent(EventTypeChannelOpenInit,
		types.NewAttribute(AttributeKeyPortID, res.PortID),
		types.NewAttribute(AttributeKeyChannelID, channelID),
		types.NewAttribute(AttributeKeyCounterpartyPortID, res.Channel.Counterparty.PortID),
		types.NewAttribute(AttributeKeyConnectionID, res.Channel.ConnectionID()),
	)}, nil
}

// OpenTryResult carries the validated inputs of a channel handshake
// response.
type OpenTryResult struct {
	PortID  string
	Channel ChannelEnd
}

// OpenTryValidate proves the counterparty's INIT end over the connection
// named by the channel.
func (k Keeper) OpenTryValidate(r state.Reader, msg *MsgChannelOpenTry) (*OpenTryResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if !k.IsBound(msg.PortID) {
		return nil, sdkerrors.Wrap(types.ErrUnboundPort, msg.PortID)
	}
	conn, err := k.connectionKeeper.OpenConnection(r, msg.Channel.ConnectionID())
	if err != nil {
		return nil, err
	}
	if err := k.checkOrderingFeature(conn, msg.Channel.Ordering); err != nil {
		return nil, err
	}

	// the counterparty committed an INIT end whose counterparty is us, with
	// no channel id allocated on our side yet
	expected := NewChannelEnd(
		INIT, msg.Channel.Ordering,
		NewCounterparty(msg.PortID, ""),
		[]string{conn.Counterparty.ConnectionID},
		msg.CounterpartyVersion,
	)
	if err := k.verifyChannelState(r, conn, msg.ProofHeight, msg.ProofInit,
		msg.Channel.Counterparty.PortID, msg.Channel.Counterparty.ChannelID, expected); err != nil {
		return nil, err
	}

	return &OpenTryResult{PortID: msg.PortID, Channel: msg.Channel}, nil
}

// OpenTryExecute allocates the channel id, stores the TRYOPEN end and starts
// the sequence counters at 1.
func (k Keeper) OpenTryExecute(w state.Writer, res *OpenTryResult) ([]types.Event, error) {
	channelID, err := k.allocateChannelID(w)
	if err != nil {
		return nil, err
	}
	if err := k.storeNewChannel(w, res.PortID, channelID, res.Channel); err != nil {
		return nil, err
	}

	k.log.Info("channel open try",
		zap.String("port_id", res.PortID),
		zap.String("channel_id", channelID),
		zap.String("counterparty_channel_id", res.Channel.Counterparty.ChannelID),
	)

	return []types.Event{types.NewEvent(EventTypeChannelOpenTry,
		types.NewAttribute(AttributeKeyPortID, res.PortID),
		types.NewAttribute(AttributeKeyChannelID, channelID),
		types.NewAttribute(AttributeKeyCounterpartyPortID, res.Channel.Counterparty.PortID),
		types.NewAttribute(AttributeKeyCounterpartyChannelID, res.Channel.Counterparty.ChannelID),
		types.NewAttribute(AttributeKeyConnectionID, res.Channel.ConnectionID()),
	)}, nil
}

// OpenAckResult carries the validated inputs of a channel handshake
// completion on the initiating chain.
type OpenAckResult struct {
	PortID                string
	ChannelID             string
	CounterpartyChannelID string
	CounterpartyVersion   string
	Channel               ChannelEnd
}

// OpenAckValidate proves the counterparty's TRYOPEN end against the local
// INIT end. Only an INIT end may be acked.
func (k Keeper) OpenAckValidate(r state.Reader, msg *MsgChannelOpenAck) (*OpenAckResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	channel, err := k.GetChannel(r, msg.PortID, msg.ChannelID)
	if err != nil {
		return nil, err
	}
	if channel.State != INIT {
		return nil, sdkerrors.Wrapf(ErrInvalidChannelState,
			"channel %s/%s state is %s, expected %s", msg.PortID, msg.ChannelID, channel.State, INIT)
	}
	conn, err := k.connectionKeeper.OpenConnection(r, channel.ConnectionID())
	if err != nil {
		return nil, err
	}

	expected := NewChannelEnd(
		TRYOPEN, channel.Ordering,
		NewCounterparty(msg.PortID, msg.ChannelID),
		[]string{conn.Counterparty.ConnectionID},
		msg.CounterpartyVersion,
	)
	if err := k.verifyChannelState(r, conn, msg.ProofHeight, msg.ProofTry,
		channel.Counterparty.PortID, msg.CounterpartyChannelID, expected); err != nil {
		return nil, err
	}

	return &OpenAckResult{
		PortID:                msg.PortID,
		ChannelID:             msg.ChannelID,
		CounterpartyChannelID: msg.CounterpartyChannelID,
		CounterpartyVersion:   msg.CounterpartyVersion,
		Channel:               channel,
	}, nil
}

// OpenAckExecute opens the local end and records the counterparty's channel
// id and version.
func (k Keeper) OpenAckExecute(w state.Writer, res *OpenAckResult) ([]types.Event, error) {
	channel := res.Channel
	channel.State = OPEN
	channel.Counterparty.ChannelID = res.CounterpartyChannelID
	channel.Version = res.CounterpartyVersion
	if err := k.SetChannel(w, res.PortID, res.ChannelID, channel); err != nil {
		return nil, err
	}

	k.log.Info("channel open ack",
		zap.String("port_id", res.PortID),
		zap.String("channel_id", res.ChannelID),
		zap.String("counterparty_channel_id", res.CounterpartyChannelID),
	)

	return []types.Event{types.NewEvent(EventTypeChannelOpenAck,
		types.NewAttribute(AttributeKeyPortID, res.PortID),
		types.NewAttribute(AttributeKeyChannelID, res.ChannelID),
		types.NewAttribute(AttributeKeyCounterpartyPortID, channel.Counterparty.PortID),
		types.NewAttribute(AttributeKeyCounterpartyChannelID, res.CounterpartyChannelID),
		types.NewAttribute(AttributeKeyConnectionID, channel.ConnectionID()),
	)}, nil
}

// OpenConfirmResult carries the validated inputs of a channel handshake
// completion on the responding chain.
type OpenConfirmResult struct {
	PortID    string
	ChannelID string
	Channel   ChannelEnd
}

// OpenConfirmValidate proves the counterparty opened its end. Only a
// TRYOPEN end may be confirmed.
func (k Keeper) OpenConfirmValidate(r state.Reader, msg *MsgChannelOpenConfirm) (*OpenConfirmResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	channel, err := k.GetChannel(r, msg.PortID, msg.ChannelID)
	if err != nil {
		return nil, err
	}
	if channel.State != TRYOPEN {
		return nil, sdkerrors.Wrapf(ErrInvalidChannelState,
			"channel %s/%s state is %s, expected %s", msg.PortID, msg.ChannelID, channel.State, TRYOPEN)
	}
	conn, err := k.connectionKeeper.OpenConnection(r, channel.ConnectionID())
	if err != nil {
		return nil, err
	}

	expected := NewChannelEnd(
		OPEN, channel.Ordering,
		NewCounterparty(msg.PortID, msg.ChannelID),
		[]string{conn.Counterparty.ConnectionID},
		channel.Version,
	)
	if err := k.verifyChannelState(r, conn, msg.ProofHeight, msg.ProofAck,
		channel.Counterparty.PortID, channel.Counterparty.ChannelID, expected); err != nil {
		return nil, err
	}

	return &OpenConfirmResult{PortID: msg.PortID, ChannelID: msg.ChannelID, Channel: channel}, nil
}

// OpenConfirmExecute opens the local end.
func (k Keeper) OpenConfirmExecute(w state.Writer, res *OpenConfirmResult) ([]types.Event, error) {
	channel := res.Channel
	channel.State = OPEN
	if err := k.SetChannel(w, res.PortID, res.ChannelID, channel); err != nil {
		return nil, err
	}

	k.log.Info("channel open confirm",
		zap.String("port_id", res.PortID),
		zap.String("channel_id", res.ChannelID),
	)

	return []types.Event{types.NewEvent(EventTypeChannelOpenConfirm,
		types.NewAttribute(AttributeKeyPortID, res.PortID),
		types.NewAttribute(AttributeKeyChannelID, res.ChannelID),
		types.NewAttribute(AttributeKeyCounterpartyPortID, channel.Counterparty.PortID),
		types.NewAttribute(AttributeKeyCounterpartyChannelID, channel.Counterparty.ChannelID),
		types.NewAttribute(AttributeKeyConnectionID, channel.ConnectionID()),
	)}, nil
}

// CloseInitResult carries the validated inputs of a voluntary channel
// closure.
type CloseInitResult struct {
	PortID    string
	ChannelID string
	Channel   ChannelEnd
}

// CloseInitValidate checks the channel is open. CLOSED is terminal, so a
// closed channel cannot be closed again.
func (k Keeper) CloseInitValidate(r state.Reader, msg *MsgChannelCloseInit) (*CloseInitResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	channel, _, err := k.openChannelConnection(r, msg.PortID, msg.ChannelID)
	if err != nil {
		return nil, err
	}
	return &CloseInitResult{PortID: msg.PortID, ChannelID: msg.ChannelID, Channel: channel}, nil
}

// CloseInitExecute closes the local end.
func (k Keeper) CloseInitExecute(w state.Writer, res *CloseInitResult) ([]types.Event, error) {
	channel := res.Channel
	channel.State = CLOSED
	if err := k.SetChannel(w, res.PortID, res.ChannelID, channel); err != nil {
		return nil, err
	}

	k.log.Info("channel close init",
		zap.String("port_id", res.PortID),
		zap.String("channel_id", res.ChannelID),
	)

	return []types.Event{types.NewEvent(EventTypeChannelCloseInit,
		types.NewAttribute(AttributeKeyPortID, res.PortID),
		types.NewAttribute(AttributeKeyChannelID, res.ChannelID),
		types.NewAttribute(AttributeKeyCounterpartyPortID, channel.Counterparty.PortID),
		types.NewAttribute(AttributeKeyCounterpartyChannelID, channel.Counterparty.ChannelID),
		types.NewAttribute(AttributeKeyConnectionID, channel.ConnectionID()),
	)}, nil
}

// CloseConfirmResult carries the validated inputs of a counterparty-driven
// channel closure.
type CloseConfirmResult struct {
	PortID    string
	ChannelID string
	Channel   ChannelEnd
}

// CloseConfirmValidate proves the counterparty closed its end.
func (k Keeper) CloseConfirmValidate(r state.Reader, msg *MsgChannelCloseConfirm) (*CloseConfirmResult, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	channel, conn, err := k.openChannelConnection(r, msg.PortID, msg.ChannelID)
	if err != nil {
		return nil, err
	}

	expected := NewChannelEnd(
		CLOSED, channel.Ordering,
		NewCounterparty(msg.PortID, msg.ChannelID),
		[]string{conn.Counterparty.ConnectionID},
		channel.Version,
	)
	if err := k.verifyChannelState(r, conn, msg.ProofHeight, msg.ProofInit,
		channel.Counterparty.PortID, channel.Counterparty.ChannelID, expected); err != nil {
		return nil, err
	}

	return &CloseConfirmResult{PortID: msg.PortID, ChannelID: msg.ChannelID, Channel: channel}, nil
}

// CloseConfirmExecute closes the local end.
func (k Keeper) CloseConfirmExecute(w state.Writer, res *CloseConfirmResult) ([]types.Event, error) {
	channel := res.Channel
	channel.State = CLOSED
	if err := k.SetChannel(w, res.PortID, res.ChannelID, channel); err != nil {
		return nil, err
	}

	k.log.Info("channel close confirm",
		zap.String("port_id", res.PortID),
		zap.String("channel_id", res.ChannelID),
	)

	return []types.Event{types.NewEvent(EventTypeChannelCloseConfirm,
		types.NewAttribute(AttributeKeyPortID, res.PortID),
		types.NewAttribute(AttributeKeyChannelID, res.ChannelID),
		types.NewAttribute(AttributeKeyCounterpartyPortID, channel.Counterparty.PortID),
		types.NewAttribute(AttributeKeyCounterpartyChannelID, channel.Counterparty.ChannelID),
		types.NewAttribute(AttributeKeyConnectionID, channel.ConnectionID()),
	)}, nil
}

// verifyChannelState verifies a proof of the counterparty's record of a
// channel under the given port and channel ids.
func (k Keeper) verifyChannelState(r state.Reader, conn connection.ConnectionEnd, height types.Height, proof []byte, portID, channelID string, expected ChannelEnd) error {
	bz, err := k.cdc.MarshalBinaryBare(expected)
	if err != nil {
		return err
	}
	if err := k.connectionKeeper.VerifyMembership(r, conn, height, proof, host.ChannelPath(portID, channelID), bz); err != nil {
		return sdkerrors.Wrap(err, "counterparty channel verification failed")
	}
	return nil
}

// checkConnectionOrdering requires the channel's connection to exist and its
// negotiated version to permit the channel's ordering. The connection need
// not be open yet on init.
func (k Keeper) checkConnectionOrdering(r state.Reader, channel ChannelEnd) error {
	conn, err := k.connectionKeeper.GetConnection(r, channel.ConnectionID())
	if err != nil {
		return err
	}
	return k.checkOrderingFeature(conn, channel.Ordering)
}

func (k Keeper) checkOrderingFeature(conn connection.ConnectionEnd, ordering types.Order) error {
	if len(conn.Versions) != 1 {
		return sdkerrors.Wrapf(connection.ErrInvalidVersion,
			"single version expected, got %d", len(conn.Versions))
	}
	if !connection.VerifySupportedFeature(conn.Versions[0], ordering.String()) {
		return sdkerrors.Wrapf(types.ErrInvalidOrdering,
			"connection version %s does not support channel ordering %s", conn.Versions[0].Identifier, ordering)
	}
	return nil
}

func (k Keeper) allocateChannelID(w state.Writer) (string, error) {
	sequence, err := k.GetNextChannelSequence(w)
	if err != nil {
		return "", err
	}
	if err := k.SetNextChannelSequence(w, sequence+1); err != nil {
		return "", err
	}
	return host.FormatChannelIdentifier(sequence), nil
}

// storeNewChannel stores a freshly allocated channel end and starts all
// three sequence counters at 1.
func (k Keeper) storeNewChannel(w state.Writer, portID, channelID string, channel ChannelEnd) error {
	if err := k.SetChannel(w, portID, channelID, channel); err != nil {
		return err
	}
	if err := k.SetNextSequenceSend(w, portID, channelID, 1); err != nil {
		return err
	}
	if err := k.SetNextSequenceRecv(w, portID, channelID, 1); err != nil {
		return err
	}
	return k.SetNextSequenceAck(w, portID, channelID, 1)
}
