// Package engine wires the client, connection and channel subsystems into a
// single message-driven state machine. Every message is handled in two
// phases: validate proves the transition against a read-only view of state,
// execute applies it through a write buffer that commits atomically.
package engine

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine/channel"
	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/connection"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
)

// AppModule is the application side of a port: it consumes delivered
// packets and learns the fate of packets it sent.
type AppModule interface {
	// OnRecvPacket processes an inbound packet and returns the
	// acknowledgement to commit. Returning nil writes no acknowledgement.
	OnRecvPacket(packet channel.Packet) []byte

	// OnAcknowledgementPacket is called when a sent packet is acknowledged.
	OnAcknowledgementPacket(packet channel.Packet, acknowledgement []byte) error

	// OnTimeoutPacket is called when a sent packet times out.
	OnTimeoutPacket(packet channel.Packet) error
}

// Config assembles the host capabilities the engine runs against.
type Config struct {
	Codec *types.Codec
	Store state.Writer

	// Prefix is the commitment prefix this chain stores provable state
	// under.
	Prefix commitment.MerklePrefix

	// HostHeight and HostTime expose the host chain's block clock. Both
	// must be constant within a block.
	HostHeight func() types.Height
	HostTime   func() uint64

	// SelfClientValidator and SelfConsensusState let handshakes check what
	// a counterparty claims about this chain.
	SelfClientValidator connection.SelfClientValidator
	SelfConsensusState  connection.SelfConsensusStateFn

	// ExpectedTimePerBlock, in nanoseconds, converts connection time delays
	// into block delays. Zero disables block delays.
	ExpectedTimePerBlock uint64

	Logger *zap.Logger
}

// Result is the outcome of a delivered message.
type Result struct {
	Events []types.Event
}

// Engine is the core state machine.
type Engine struct {
	cdc   *types.Codec
	store state.Writer
	log   *zap.Logger

	router      *client.Router
	clients     client.Keeper
	connections connection.Keeper
	channels    channel.Keeper

	apps map[string]AppModule
}

// New constructs an engine over the given host capabilities. Light-client
// and application modules are registered afterwards, before first use.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	router := client.NewRouter()
	clients := client.NewKeeper(cfg.Codec, router, cfg.HostHeight, cfg.HostTime, cfg.Logger)
	connections := connection.NewKeeper(
		cfg.Codec, clients, cfg.Prefix,
		cfg.SelfClientValidator, cfg.SelfConsensusState,
		cfg.ExpectedTimePerBlock, cfg.Logger,
	)
	channels := channel.NewKeeper(cfg.Codec, connections, cfg.HostHeight, cfg.HostTime, cfg.Logger)

	return &Engine{
		cdc:         cfg.Codec,
		store:       cfg.Store,
		log:         cfg.Logger,
		router:      router,
		clients:     clients,
		connections: connections,
		channels:    channels,
		apps:        make(map[string]AppModule),
	}
}

// RegisterClientModule adds a light-client capability. Panics on duplicate
// registration; module wiring is host setup, not request handling.
func (e *Engine) RegisterClientModule(module client.LightClientModule) {
	e.router.AddRoute(module)
}

// RegisterApp binds a port to an application module.
func (e *Engine) RegisterApp(portID string, app AppModule) error {
	if _, ok := e.apps[portID]; ok {
		return sdkerrors.Wrapf(types.ErrUnboundPort, "port %s already bound", portID)
	}
	if err := e.channels.BindPort(portID); err != nil {
		return err
	}
	e.apps[portID] = app
	return nil
}

// ClientKeeper exposes the client subsystem for queries.
func (e *Engine) ClientKeeper() client.Keeper { return e.clients }

// ConnectionKeeper exposes the connection subsystem for queries.
func (e *Engine) ConnectionKeeper() connection.Keeper { return e.connections }

// ChannelKeeper exposes the channel subsystem for queries.
func (e *Engine) ChannelKeeper() channel.Keeper { return e.channels }

// State exposes the engine's backing store as a read-only view.
func (e *Engine) State() state.Reader { return e.store }

// ClientStatus returns a client's operational status.
func (e *Engine) ClientStatus(clientID string) (exported.Status, error) {
	return e.clients.Status(e.store, clientID)
}

// Deliver validates and executes a single message. State changes commit only
// if the whole delivery succeeds; a failed delivery leaves no trace.
func (e *Engine) Deliver(msg types.Msg) (*Result, error) {
	if msg == nil {
		return nil, sdkerrors.Wrap(types.ErrUnknownMessage, "nil message")
	}

	cache := state.NewCache(e.store)
	events, err := e.dispatch(cache, msg)
	if err != nil {
		e.log.Debug("message rejected",
			zap.String("route", msg.Route()),
			zap.String("type", msg.Type()),
			zap.Error(err),
		)
		return nil, err
	}
	if err := cache.Commit(); err != nil {
		return nil, err
	}
	return &Result{Events: events}, nil
}

// dispatch routes a message to its handler pair. Validation reads through
// the cache so a handler observes its own prior writes within the delivery.
func (e *Engine) dispatch(cache *state.Cache, msg types.Msg) ([]types.Event, error) {
	switch m := msg.(type) {
	case *client.MsgCreateClient:
		res, err := e.clients.CreateClientValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.clients.CreateClientExecute(cache, res)
	case *client.MsgUpdateClient:
		res, err := e.clients.UpdateClientValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.clients.UpdateClientExecute(cache, res)
	case *client.MsgSubmitMisbehaviour:
		res, err := e.clients.SubmitMisbehaviourValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.clients.SubmitMisbehaviourExecute(cache, res)

	case *connection.MsgConnectionOpenInit:
		res, err := e.connections.OpenInitValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.connections.OpenInitExecute(cache, res)
	case *connection.MsgConnectionOpenTry:
		res, err := e.connections.OpenTryValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.connections.OpenTryExecute(cache, res)
	case *connection.MsgConnectionOpenAck:
		res, err := e.connections.OpenAckValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.connections.OpenAckExecute(cache, res)
	case *connection.MsgConnectionOpenConfirm:
		res, err := e.connections.OpenConfirmValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.connections.OpenConfirmExecute(cache, res)

	case *channel.MsgChannelOpenInit:
		res, err := e.channels.OpenInitValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.channels.OpenInitExecute(cache, res)
	case *channel.MsgChannelOpenTry:
		res, err := e.channels.OpenTryValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.channels.OpenTryExecute(cache, res)
	case *channel.MsgChannelOpenAck:
		res, err := e.channels.OpenAckValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.channels.OpenAckExecute(cache, res)
	case *channel.MsgChannelOpenConfirm:
		res, err := e.channels.OpenConfirmValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.channels.OpenConfirmExecute(cache, res)
	case *channel.MsgChannelCloseInit:
		res, err := e.channels.CloseInitValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.channels.CloseInitExecute(cache, res)
	case *channel.MsgChannelCloseConfirm:
		res, err := e.channels.CloseConfirmValidate(cache, m)
		if err != nil {
			return nil, err
		}
		return e.channels.CloseConfirmExecute(cache, res)

	case *channel.MsgRecvPacket:
		return e.deliverRecvPacket(cache, m)
	case *channel.MsgAcknowledgement:
		return e.deliverAcknowledgement(cache, m)
	case *channel.MsgTimeout:
		return e.deliverTimeout(cache, m)
	case *channel.MsgTimeoutOnClose:
		return e.deliverTimeoutOnClose(cache, m)

	default:
		return nil, sdkerrors.Wrapf(types.ErrUnknownMessage, "%T", msg)
	}
}

// deliverRecvPacket receives the packet, hands it to the port's application
// and commits the acknowledgement the application returns.
func (e *Engine) deliverRecvPacket(cache *state.Cache, msg *channel.MsgRecvPacket) ([]types.Event, error) {
	res, err := e.channels.RecvPacketValidate(cache, msg)
	if err != nil {
		return nil, err
	}
	events, err := e.channels.RecvPacketExecute(cache, res)
	if err != nil {
		return nil, err
	}
	if res.NoOp {
		return events, nil
	}

	app, err := e.appForPort(msg.Packet.DestinationPort)
	if err != nil {
		return nil, err
	}
	ack := app.OnRecvPacket(msg.Packet)
	if ack == nil {
		// asynchronous acknowledgement: the application will write it later
		return events, nil
	}

	ackRes, err := e.channels.WriteAcknowledgementValidate(cache, msg.Packet, ack)
	if err != nil {
		return nil, err
	}
	ackEvents, err := e.channels.WriteAcknowledgementExecute(cache, ackRes)
	if err != nil {
		return nil, err
	}
	return append(events, ackEvents...), nil
}

func (e *Engine) deliverAcknowledgement(cache *state.Cache, msg *channel.MsgAcknowledgement) ([]types.Event, error) {
	res, err := e.channels.AcknowledgePacketValidate(cache, msg)
	if err != nil {
		return nil, err
	}
	events, err := e.channels.AcknowledgePacketExecute(cache, res)
	if err != nil {
		return nil, err
	}
	if res.NoOp {
		return events, nil
	}

	app, err := e.appForPort(msg.Packet.SourcePort)
	if err != nil {
		return nil, err
	}
	if err := app.OnAcknowledgementPacket(msg.Packet, msg.Acknowledgement); err != nil {
		return nil, err
	}
	return events, nil
}

func (e *Engine) deliverTimeout(cache *state.Cache, msg *channel.MsgTimeout) ([]types.Event, error) {
	res, err := e.channels.TimeoutPacketValidate(cache, msg)
	if err != nil {
		return nil, err
	}
	return e.finishTimeout(cache, res)
}

func (e *Engine) deliverTimeoutOnClose(cache *state.Cache, msg *channel.MsgTimeoutOnClose) ([]types.Event, error) {
	res, err := e.channels.TimeoutOnCloseValidate(cache, msg)
	if err != nil {
		return nil, err
	}
	return e.finishTimeout(cache, res)
}

func (e *Engine) finishTimeout(cache *state.Cache, res *channel.TimeoutPacketResult) ([]types.Event, error) {
	events, err := e.channels.TimeoutPacketExecute(cache, res)
	if err != nil {
		return nil, err
	}
	if res.NoOp {
		return events, nil
	}

	app, err := e.appForPort(res.Packet.SourcePort)
	if err != nil {
		return nil, err
	}
	if err := app.OnTimeoutPacket(res.Packet); err != nil {
		return nil, err
	}
	return events, nil
}

// SendPacket forms, validates and commits an outbound packet on behalf of
// the application bound to the source port.
func (e *Engine) SendPacket(sourcePort, sourceChannel string, timeoutHeight types.Height, timeoutTimestamp uint64, data []byte) (channel.Packet, []types.Event, error) {
	if _, err := e.appForPort(sourcePort); err != nil {
		return channel.Packet{}, nil, err
	}

	cache := state.NewCache(e.store)
	res, err := e.channels.SendPacketValidate(cache, sourcePort, sourceChannel, timeoutHeight, timeoutTimestamp, data)
	if err != nil {
		return channel.Packet{}, nil, err
	}
	events, err := e.channels.SendPacketExecute(cache, res)
	if err != nil {
		return channel.Packet{}, nil, err
	}
	if err := cache.Commit(); err != nil {
		return channel.Packet{}, nil, err
	}
	return res.Packet, events, nil
}

// WriteAcknowledgement commits an acknowledgement an application produced
// asynchronously, after OnRecvPacket returned nil.
func (e *Engine) WriteAcknowledgement(packet channel.Packet, ack []byte) ([]types.Event, error) {
	cache := state.NewCache(e.store)
	res, err := e.channels.WriteAcknowledgementValidate(cache, packet, ack)
	if err != nil {
		return nil, err
	}
	events, err := e.channels.WriteAcknowledgementExecute(cache, res)
	if err != nil {
		return nil, err
	}
	if err := cache.Commit(); err != nil {
		return nil, err
	}
	return events, nil
}

func (e *Engine) appForPort(portID string) (AppModule, error) {
	app, ok := e.apps[portID]
	if !ok {
		return nil, sdkerrors.Wrap(types.ErrUnboundPort, portID)
	}
	return app, nil
}
