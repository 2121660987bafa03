package cmd

import (
	"fmt"
	"time"

	"github.com/tendermint/tendermint/crypto/tmhash"
	"go.uber.org/zap"

	"github.com/cosmos/ibc-engine/engine"
	"github.com/cosmos/ibc-engine/engine/channel"
	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/commitment"
	"github.com/cosmos/ibc-engine/engine/connection"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/lightclients/mock"
	"github.com/cosmos/ibc-engine/engine/state"
	"github.com/cosmos/ibc-engine/engine/types"
	"github.com/cosmos/ibc-engine/internal/enginemetrics"
)

// simPort is the port the simulated application binds on both chains.
const simPort = "sim"

// simVersion is the channel version both simulated applications speak.
const simVersion = "sim-1"

var simAck = []byte("simulated acknowledgement")

func simPrefix() commitment.MerklePrefix {
	return commitment.NewMerklePrefix([]byte("ibc"))
}

// simApp is the application bound on simPort. It acknowledges every packet
// synchronously with simAck.
type simApp struct {
	log *zap.Logger
}

func (a *simApp) OnRecvPacket(packet channel.Packet) []byte {
	a.log.Info("application received packet",
		zap.Uint64("sequence", packet.Sequence),
		zap.String("data", string(packet.Data)),
	)
	return simAck
}

func (a *simApp) OnAcknowledgementPacket(packet channel.Packet, ack []byte) error {
	a.log.Info("application packet acknowledged",
		zap.Uint64("sequence", packet.Sequence),
		zap.String("ack", string(ack)),
	)
	return nil
}

func (a *simApp) OnTimeoutPacket(packet channel.Packet) error {
	a.log.Info("application packet timed out",
		zap.Uint64("sequence", packet.Sequence),
	)
	return nil
}

// simChain is one in-memory chain of the simulation: an engine over a memdb
// store plus a synthetic block clock. Commitment roots derive from the chain
// id and height so the counterparty's mock client can verify proofs without
// consensus.
type simChain struct {
	chainID string
	engine  *engine.Engine
	store   *state.Store

	metrics *enginemetrics.PrometheusMetrics
	log     *zap.Logger

	height      uint64
	genesisTime uint64
	blockTime   uint64
}

func newSimChain(log *zap.Logger, metrics *enginemetrics.PrometheusMetrics, chainID string, blockTime time.Duration) (*simChain, error) {
	c := &simChain{
		chainID:     chainID,
		store:       state.NewMemStore(),
		metrics:     metrics,
		log:         log.With(zap.String("chain_id", chainID)),
		height:      1,
		genesisTime: uint64(time.Now().UnixNano()),
		blockTime:   uint64(blockTime),
	}

	c.engine = engine.New(engine.Config{
		Codec:               engine.NewDefaultCodec(),
		Store:               c.store,
		Prefix:              simPrefix(),
		HostHeight:          c.currentHeight,
		HostTime:            c.currentTimestamp,
		SelfClientValidator: c.validateSelfClient,
		SelfConsensusState:  c.selfConsensusState,
		Logger:              c.log,
	})
	c.engine.RegisterClientModule(mock.NewModule())
	if err := c.engine.RegisterApp(simPort, &simApp{log: c.log}); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *simChain) currentHeight() types.Height {
	return types.NewHeight(0, c.height)
}

func (c *simChain) currentTimestamp() uint64 {
	return c.timestampAt(c.currentHeight())
}

func (c *simChain) timestampAt(height types.Height) uint64 {
	return c.genesisTime + height.RevisionHeight*c.blockTime
}

func (c *simChain) nextBlock() {
	c.height++
}

func (c *simChain) rootAt(height types.Height) commitment.MerkleRoot {
	return commitment.NewMerkleRoot(tmhash.Sum([]byte(fmt.Sprintf("%s/%s", c.chainID, height))))
}

func (c *simChain) consensusStateAt(height types.Height) mock.ConsensusState {
	return mock.ConsensusState{
		Timestamp: c.timestampAt(height),
		Root:      c.rootAt(height),
	}
}

func (c *simChain) latestHeader() mock.Header {
	return mock.Header{
		Height:    c.currentHeight(),
		Timestamp: c.currentTimestamp(),
		Root:      c.rootAt(c.currentHeight()),
	}
}

// queryProof generates the proof a relayer would carry for the path at the
// chain's current height: a membership proof of the stored value, or an
// absence proof if nothing is stored.
func (c *simChain) queryProof(path string) ([]byte, types.Height, error) {
	height := c.currentHeight()
	merklePath := commitment.NewMerklePath(string(simPrefix().KeyPrefix), path)
	value, err := c.store.Get(path)
	if err != nil {
		return nil, types.Height{}, err
	}
	if value == nil {
		return mock.NonMembershipProof(c.rootAt(height), merklePath), height, nil
	}
	return mock.MembershipProof(c.rootAt(height), merklePath, value), height, nil
}

// deliver submits a message to the chain's engine, logging the emitted events
// and counting the delivery.
func (c *simChain) deliver(msg types.Msg) (*engine.Result, error) {
	res, err := c.engine.Deliver(msg)
	if err != nil {
		c.metrics.IncMessageRejected(c.chainID, msg.Type())
		return nil, fmt.Errorf("delivering %s on %s: %w", msg.Type(), c.chainID, err)
	}
	c.metrics.IncMessageDelivered(c.chainID, msg.Type())

	for _, event := range res.Events {
		fields := make([]zap.Field, 0, len(event.Attributes)+1)
		fields = append(fields, zap.String("event", event.Type))
		for _, attr := range event.Attributes {
			fields = append(fields, zap.String(attr.Key, attr.Value))
		}
		c.log.Info("event emitted", fields...)
	}
	return res, nil
}

func (c *simChain) validateSelfClient(clientState exported.ClientState) error {
	cs, ok := clientState.(mock.ClientState)
	if !ok {
		return fmt.Errorf("expected %T, got %T", mock.ClientState{}, clientState)
	}
	if cs.ChainID != c.chainID {
		return fmt.Errorf("client state chain id %s does not match %s", cs.ChainID, c.chainID)
	}
	return nil
}

func (c *simChain) selfConsensusState(height types.Height) (exported.ConsensusState, error) {
	if height.RevisionHeight == 0 || height.GT(c.currentHeight()) {
		return nil, fmt.Errorf("no consensus state at height %s", height)
	}
	return c.consensusStateAt(height), nil
}

// simEndpoint is one chain's side of the simulated path.
type simEndpoint struct {
	chain        *simChain
	counterparty *simEndpoint

	clientID     string
	connectionID string
	channelID    string

	order types.Order
}

func (ep *simEndpoint) createClient() error {
	cp := ep.counterparty.chain
	res, err := ep.chain.deliver(&client.MsgCreateClient{
		ClientState:    mock.NewClientState(cp.chainID, cp.currentHeight()),
		ConsensusState: cp.consensusStateAt(cp.currentHeight()),
	})
	if err != nil {
		return err
	}
	ep.clientID, err = eventAttribute(res, client.EventTypeCreateClient, client.AttributeKeyClientID)
	return err
}

func (ep *simEndpoint) updateClient() error {
	cp := ep.counterparty.chain
	if _, err := ep.chain.deliver(&client.MsgUpdateClient{
		ClientID: ep.clientID,
		Header:   cp.latestHeader(),
	}); err != nil {
		return err
	}
	ep.chain.metrics.IncClientUpdate(ep.chain.chainID, ep.clientID)
	ep.chain.metrics.SetLatestClientHeight(ep.chain.chainID, ep.clientID, cp.height)
	return nil
}

// flushCounterparty commits a counterparty block and syncs this chain's
// client to it, so proofs queried next verify here.
func (ep *simEndpoint) flushCounterparty() error {
	ep.counterparty.chain.nextBlock()
	return ep.updateClient()
}

func (ep *simEndpoint) connOpenInit() error {
	res, err := ep.chain.deliver(&connection.MsgConnectionOpenInit{
		ClientID:     ep.clientID,
		Counterparty: connection.NewCounterparty(ep.counterparty.clientID, "", simPrefix()),
	})
	if err != nil {
		return err
	}
	ep.connectionID, err = eventAttribute(res, connection.EventTypeConnectionOpenInit, connection.AttributeKeyConnectionID)
	return err
}

func (ep *simEndpoint) connOpenTry() error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proofInit, proofHeight, err := src.chain.queryProof(host.ConnectionPath(src.connectionID))
	if err != nil {
		return err
	}
	clientState, proofClient, consensusHeight, proofConsensus, err := src.counterpartyClientProofs()
	if err != nil {
		return err
	}

	res, err := ep.chain.deliver(&connection.MsgConnectionOpenTry{
		ClientID:             ep.clientID,
		Counterparty:         connection.NewCounterparty(src.clientID, src.connectionID, simPrefix()),
		ClientState:          clientState,
		CounterpartyVersions: connection.GetCompatibleVersions(),
		ProofHeight:          proofHeight,
		ProofInit:            proofInit,
		ProofClient:          proofClient,
		ProofConsensus:       proofConsensus,
		ConsensusHeight:      consensusHeight,
	})
	if err != nil {
		return err
	}
	ep.connectionID, err = eventAttribute(res, connection.EventTypeConnectionOpenTry, connection.AttributeKeyConnectionID)
	return err
}

func (ep *simEndpoint) connOpenAck() error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proofTry, proofHeight, err := src.chain.queryProof(host.ConnectionPath(src.connectionID))
	if err != nil {
		return err
	}
	clientState, proofClient, consensusHeight, proofConsensus, err := src.counterpartyClientProofs()
	if err != nil {
		return err
	}
	srcConnection, err := src.chain.engine.ConnectionKeeper().GetConnection(src.chain.engine.State(), src.connectionID)
	if err != nil {
		return err
	}

	_, err = ep.chain.deliver(&connection.MsgConnectionOpenAck{
		ConnectionID:             ep.connectionID,
		CounterpartyConnectionID: src.connectionID,
		Version:                  srcConnection.Versions[0],
		ClientState:              clientState,
		ProofHeight:              proofHeight,
		ProofTry:                 proofTry,
		ProofClient:              proofClient,
		ProofConsensus:           proofConsensus,
		ConsensusHeight:          consensusHeight,
	})
	return err
}

func (ep *simEndpoint) connOpenConfirm() error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proofAck, proofHeight, err := src.chain.queryProof(host.ConnectionPath(src.connectionID))
	if err != nil {
		return err
	}
	_, err = ep.chain.deliver(&connection.MsgConnectionOpenConfirm{
		ConnectionID: ep.connectionID,
		ProofAck:     proofAck,
		ProofHeight:  proofHeight,
	})
	return err
}

func (ep *simEndpoint) counterpartyClientProofs() (clientState exported.ClientState, proofClient []byte, consensusHeight types.Height, proofConsensus []byte, err error) {
	chain := ep.chain
	cs, err := chain.engine.ClientKeeper().GetClientState(chain.engine.State(), ep.clientID)
	if err != nil {
		return nil, nil, types.Height{}, nil, err
	}
	consensusHeight = cs.GetLatestHeight()
	proofClient, _, err = chain.queryProof(host.FullClientStatePath(ep.clientID))
	if err != nil {
		return nil, nil, types.Height{}, nil, err
	}
	proofConsensus, _, err = chain.queryProof(host.FullConsensusStatePath(ep.clientID, consensusHeight))
	if err != nil {
		return nil, nil, types.Height{}, nil, err
	}
	return cs, proofClient, consensusHeight, proofConsensus, nil
}

func (ep *simEndpoint) chanOpenInit() error {
	res, err := ep.chain.deliver(&channel.MsgChannelOpenInit{
		PortID: simPort,
		Channel: channel.NewChannelEnd(
			channel.INIT, ep.order,
			channel.NewCounterparty(simPort, ""),
			[]string{ep.connectionID}, simVersion,
		),
	})
	if err != nil {
		return err
	}
	ep.channelID, err = eventAttribute(res, channel.EventTypeChannelOpenInit, channel.AttributeKeyChannelID)
	return err
}

func (ep *simEndpoint) chanOpenTry() error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proofInit, proofHeight, err := src.chain.queryProof(host.ChannelPath(simPort, src.channelID))
	if err != nil {
		return err
	}
	res, err := ep.chain.deliver(&channel.MsgChannelOpenTry{
		PortID: simPort,
		Channel: channel.NewChannelEnd(
			channel.TRYOPEN, ep.order,
			channel.NewCounterparty(simPort, src.channelID),
			[]string{ep.connectionID}, simVersion,
		),
		CounterpartyVersion: simVersion,
		ProofInit:           proofInit,
		ProofHeight:         proofHeight,
	})
	if err != nil {
		return err
	}
	ep.channelID, err = eventAttribute(res, channel.EventTypeChannelOpenTry, channel.AttributeKeyChannelID)
	return err
}

func (ep *simEndpoint) chanOpenAck() error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proofTry, proofHeight, err := src.chain.queryProof(host.ChannelPath(simPort, src.channelID))
	if err != nil {
		return err
	}
	_, err = ep.chain.deliver(&channel.MsgChannelOpenAck{
		PortID:                simPort,
		ChannelID:             ep.channelID,
		CounterpartyChannelID: src.channelID,
		CounterpartyVersion:   simVersion,
		ProofTry:              proofTry,
		ProofHeight:           proofHeight,
	})
	return err
}

func (ep *simEndpoint) chanOpenConfirm() error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proofAck, proofHeight, err := src.chain.queryProof(host.ChannelPath(simPort, src.channelID))
	if err != nil {
		return err
	}
	_, err = ep.chain.deliver(&channel.MsgChannelOpenConfirm{
		PortID:      simPort,
		ChannelID:   ep.channelID,
		ProofAck:    proofAck,
		ProofHeight: proofHeight,
	})
	return err
}

func (ep *simEndpoint) sendPacket(data []byte, timeoutHeight types.Height) (channel.Packet, error) {
	packet, _, err := ep.chain.engine.SendPacket(simPort, ep.channelID, timeoutHeight, 0, data)
	if err != nil {
		return channel.Packet{}, err
	}
	ep.chain.metrics.IncPacketSent(ep.chain.chainID, ep.channelID, simPort)
	return packet, nil
}

func (ep *simEndpoint) recvPacket(packet channel.Packet) error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proof, proofHeight, err := src.chain.queryProof(
		host.PacketCommitmentPath(packet.SourcePort, packet.SourceChannel, packet.Sequence))
	if err != nil {
		return err
	}
	if _, err := ep.chain.deliver(&channel.MsgRecvPacket{
		Packet:          packet,
		ProofCommitment: proof,
		ProofHeight:     proofHeight,
	}); err != nil {
		return err
	}
	ep.chain.metrics.IncPacketReceived(ep.chain.chainID, ep.channelID, simPort)
	return nil
}

func (ep *simEndpoint) acknowledgePacket(packet channel.Packet, ack []byte) error {
	src := ep.counterparty
	if err := ep.flushCounterparty(); err != nil {
		return err
	}

	proof, proofHeight, err := src.chain.queryProof(
		host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
	if err != nil {
		return err
	}
	if _, err := ep.chain.deliver(&channel.MsgAcknowledgement{
		Packet:          packet,
		Acknowledgement: ack,
		ProofAcked:      proof,
		ProofHeight:     proofHeight,
	}); err != nil {
		return err
	}
	ep.chain.metrics.IncPacketAcked(ep.chain.chainID, ep.channelID, simPort)
	return nil
}

func eventAttribute(res *engine.Result, eventType, key string) (string, error) {
	for _, event := range res.Events {
		if event.Type != eventType {
			continue
		}
		if value, ok := event.GetAttribute(key); ok {
			return value, nil
		}
	}
	return "", fmt.Errorf("event %s has no attribute %s", eventType, key)
}
