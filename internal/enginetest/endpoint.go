package enginetest

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/ibc-engine/engine"
	"github.com/cosmos/ibc-engine/engine/channel"
	"github.com/cosmos/ibc-engine/engine/client"
	"github.com/cosmos/ibc-engine/engine/connection"
	"github.com/cosmos/ibc-engine/engine/exported"
	"github.com/cosmos/ibc-engine/engine/host"
	"github.com/cosmos/ibc-engine/engine/lightclients/mock"
	"github.com/cosmos/ibc-engine/engine/types"
)

// Endpoint is one chain's side of a path: the client, connection and channel
// identifiers it allocated for the pairing.
type Endpoint struct {
	Chain        *Chain
	Counterparty *Endpoint

	ClientID     string
	ConnectionID string
	ChannelID    string

	PortID      string
	Order       types.Order
	Version     string
	DelayPeriod uint64
}

// Path is a pair of endpoints wired to each other.
type Path struct {
	EndpointA *Endpoint
	EndpointB *Endpoint
}

// NewPath wires two chains into a path with the harness defaults: the mock
// port, unordered channels and no delay period.
func NewPath(chainA, chainB *Chain) *Path {
	a := &Endpoint{Chain: chainA, PortID: MockPort, Order: types.UNORDERED, Version: "mock-1"}
	b := &Endpoint{Chain: chainB, PortID: MockPort, Order: types.UNORDERED, Version: "mock-1"}
	a.Counterparty, b.Counterparty = b, a
	return &Path{EndpointA: a, EndpointB: b}
}

// SetOrder switches both endpoints to the given channel ordering.
func (p *Path) SetOrder(order types.Order) {
	p.EndpointA.Order = order
	p.EndpointB.Order = order
}

// CreateClient creates on this chain a client of the counterparty at its
// current height.
func (ep *Endpoint) CreateClient() {
	counterparty := ep.Counterparty.Chain
	res := ep.Chain.MustDeliver(&client.MsgCreateClient{
		ClientState:    mock.NewClientState(counterparty.ChainID, counterparty.CurrentHeight()),
		ConsensusState: counterparty.ConsensusStateAt(counterparty.CurrentHeight()),
	})
	ep.ClientID = eventAttribute(ep.Chain.t, res, client.EventTypeCreateClient, client.AttributeKeyClientID)
}

// UpdateClient submits the counterparty's latest header to this chain's
// client.
func (ep *Endpoint) UpdateClient() {
	ep.Chain.MustDeliver(&client.MsgUpdateClient{
		ClientID: ep.ClientID,
		Header:   ep.Counterparty.Chain.LatestHeader(),
	})
}

// flushCounterparty commits a counterparty block and syncs this chain's
// client to it, so proofs queried next verify here.
func (ep *Endpoint) flushCounterparty() {
	ep.Counterparty.Chain.NextBlock()
	ep.UpdateClient()
}

// ConnOpenInit starts the connection handshake on this chain.
func (ep *Endpoint) ConnOpenInit() {
	res := ep.Chain.MustDeliver(&connection.MsgConnectionOpenInit{
		ClientID:     ep.ClientID,
		Counterparty: connection.NewCounterparty(ep.Counterparty.ClientID, "", DefaultPrefix()),
		DelayPeriod:  ep.DelayPeriod,
	})
	ep.ConnectionID = eventAttribute(ep.Chain.t, res, connection.EventTypeConnectionOpenInit, connection.AttributeKeyConnectionID)
}

// ConnOpenTry responds on this chain to a handshake started on the
// counterparty.
func (ep *Endpoint) ConnOpenTry() {
	src := ep.Counterparty
	ep.flushCounterparty()

	proofInit, proofHeight := src.Chain.QueryProof(host.ConnectionPath(src.ConnectionID))
	clientState, proofClient, consensusHeight, proofConsensus := src.counterpartyClientProofs()

	res := ep.Chain.MustDeliver(&connection.MsgConnectionOpenTry{
		ClientID:             ep.ClientID,
		Counterparty:         connection.NewCounterparty(src.ClientID, src.ConnectionID, DefaultPrefix()),
		DelayPeriod:          ep.DelayPeriod,
		ClientState:          clientState,
		CounterpartyVersions: connection.GetCompatibleVersions(),
		ProofHeight:          proofHeight,
		ProofInit:            proofInit,
		ProofClient:          proofClient,
		ProofConsensus:       proofConsensus,
		ConsensusHeight:      consensusHeight,
	})
	ep.ConnectionID = eventAttribute(ep.Chain.t, res, connection.EventTypeConnectionOpenTry, connection.AttributeKeyConnectionID)
}

// ConnOpenAck completes the handshake on the chain that started it.
func (ep *Endpoint) ConnOpenAck() {
	src := ep.Counterparty
	ep.flushCounterparty()

	proofTry, proofHeight := src.Chain.QueryProof(host.ConnectionPath(src.ConnectionID))
	clientState, proofClient, consensusHeight, proofConsensus := src.counterpartyClientProofs()
	srcConnection, err := src.Chain.Engine.ConnectionKeeper().GetConnection(src.Chain.Engine.State(), src.ConnectionID)
	require.NoError(ep.Chain.t, err)

	ep.Chain.MustDeliver(&connection.MsgConnectionOpenAck{
		ConnectionID:             ep.ConnectionID,
		CounterpartyConnectionID: src.ConnectionID,
		Version:                  srcConnection.Versions[0],
		ClientState:              clientState,
		ProofHeight:              proofHeight,
		ProofTry:                 proofTry,
		ProofClient:              proofClient,
		ProofConsensus:           proofConsensus,
		ConsensusHeight:          consensusHeight,
	})
}

// ConnOpenConfirm completes the handshake on the responding chain.
func (ep *Endpoint) ConnOpenConfirm() {
	src := ep.Counterparty
	ep.flushCounterparty()

	proofAck, proofHeight := src.Chain.QueryProof(host.ConnectionPath(src.ConnectionID))
	ep.Chain.MustDeliver(&connection.MsgConnectionOpenConfirm{
		ConnectionID: ep.ConnectionID,
		ProofAck:     proofAck,
		ProofHeight:  proofHeight,
	})
}

// counterpartyClientProofs gathers, from this endpoint's chain, the client
// state it runs for the counterparty together with membership proofs of the
// client and its latest consensus state.
func (ep *Endpoint) counterpartyClientProofs() (clientState exported.ClientState, proofClient []byte, consensusHeight types.Height, proofConsensus []byte) {
	chain := ep.Chain
	cs, err := chain.Engine.ClientKeeper().GetClientState(chain.Engine.State(), ep.ClientID)
	require.NoError(chain.t, err)
	consensusHeight = cs.GetLatestHeight()
	proofClient, _ = chain.QueryProof(host.FullClientStatePath(ep.ClientID))
	proofConsensus, _ = chain.QueryProof(host.FullConsensusStatePath(ep.ClientID, consensusHeight))
	return cs, proofClient, consensusHeight, proofConsensus
}

// ChanOpenInit starts the channel handshake on this chain.
func (ep *Endpoint) ChanOpenInit() {
	res := ep.Chain.MustDeliver(&channel.MsgChannelOpenInit{
		PortID: ep.PortID,
		Channel: channel.NewChannelEnd(
			channel.INIT, ep.Order,
			channel.NewCounterparty(ep.Counterparty.PortID, ""),
			[]string{ep.ConnectionID}, ep.Version,
		),
	})
	ep.ChannelID = eventAttribute(ep.Chain.t, res, channel.EventTypeChannelOpenInit, channel.AttributeKeyChannelID)
}

// ChanOpenTry responds on this chain to a channel handshake started on the
// counterparty.
func (ep *Endpoint) ChanOpenTry() {
	src := ep.Counterparty
	ep.flushCounterparty()

	proofInit, proofHeight := src.Chain.QueryProof(host.ChannelPath(src.PortID, src.ChannelID))
	res := ep.Chain.MustDeliver(&channel.MsgChannelOpenTry{
		PortID: ep.PortID,
		Channel: channel.NewChannelEnd(
			channel.TRYOPEN, ep.Order,
			channel.NewCounterparty(src.PortID, src.ChannelID),
			[]string{ep.ConnectionID}, ep.Version,
		),
		CounterpartyVersion: src.Version,
		ProofInit:           proofInit,
		ProofHeight:         proofHeight,
	})
	ep.ChannelID = eventAttribute(ep.Chain.t, res, channel.EventTypeChannelOpenTry, channel.AttributeKeyChannelID)
}

// ChanOpenAck completes the channel handshake on the chain that started it.
func (ep *Endpoint) ChanOpenAck() {
	src := ep.Counterparty
	ep.flushCounterparty()

	proofTry, proofHeight := src.Chain.QueryProof(host.ChannelPath(src.PortID, src.ChannelID))
	ep.Chain.MustDeliver(&channel.MsgChannelOpenAck{
		PortID:                ep.PortID,
		ChannelID:             ep.ChannelID,
		CounterpartyChannelID: src.ChannelID,
		CounterpartyVersion:   src.Version,
		ProofTry:              proofTry,
		ProofHeight:           proofHeight,
	})
}

// ChanOpenConfirm completes the channel handshake on the responding chain.
func (ep *Endpoint) ChanOpenConfirm() {
	src := ep.Counterparty
	ep.flushCounterparty()

	proofAck, proofHeight := src.Chain.QueryProof(host.ChannelPath(src.PortID, src.ChannelID))
	ep.Chain.MustDeliver(&channel.MsgChannelOpenConfirm{
		PortID:      ep.PortID,
		ChannelID:   ep.ChannelID,
		ProofAck:    proofAck,
		ProofHeight: proofHeight,
	})
}

// ChanCloseInit closes the channel from this end.
func (ep *Endpoint) ChanCloseInit() {
	ep.Chain.MustDeliver(&channel.MsgChannelCloseInit{
		PortID:    ep.PortID,
		ChannelID: ep.ChannelID,
	})
}

// ChanCloseConfirm closes this end after the counterparty's end closed.
func (ep *Endpoint) ChanCloseConfirm() {
	src := ep.Counterparty
	ep.flushCounterparty()

	proofInit, proofHeight := src.Chain.QueryProof(host.ChannelPath(src.PortID, src.ChannelID))
	ep.Chain.MustDeliver(&channel.MsgChannelCloseConfirm{
		PortID:      ep.PortID,
		ChannelID:   ep.ChannelID,
		ProofInit:   proofInit,
		ProofHeight: proofHeight,
	})
}

// SendPacket sends a packet from this endpoint.
func (ep *Endpoint) SendPacket(data []byte, timeoutHeight types.Height, timeoutTimestamp uint64) channel.Packet {
	packet, _, err := ep.Chain.Engine.SendPacket(ep.PortID, ep.ChannelID, timeoutHeight, timeoutTimestamp, data)
	require.NoError(ep.Chain.t, err)
	return packet
}

// RecvPacket delivers on this chain a packet sent by the counterparty.
func (ep *Endpoint) RecvPacket(packet channel.Packet) (*engine.Result, error) {
	src := ep.Counterparty
	ep.flushCounterparty()

	proof, proofHeight := src.Chain.QueryProof(
		host.PacketCommitmentPath(packet.SourcePort, packet.SourceChannel, packet.Sequence))
	return ep.Chain.Deliver(&channel.MsgRecvPacket{
		Packet:          packet,
		ProofCommitment: proof,
		ProofHeight:     proofHeight,
	})
}

// AcknowledgePacket delivers on this chain the acknowledgement the
// counterparty wrote for a packet this chain sent.
func (ep *Endpoint) AcknowledgePacket(packet channel.Packet, ack []byte) (*engine.Result, error) {
	src := ep.Counterparty
	ep.flushCounterparty()

	proof, proofHeight := src.Chain.QueryProof(
		host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
	return ep.Chain.Deliver(&channel.MsgAcknowledgement{
		Packet:          packet,
		Acknowledgement: ack,
		ProofAcked:      proof,
		ProofHeight:     proofHeight,
	})
}

// TimeoutPacket times out on this chain a packet it sent that the
// counterparty never received. The caller is responsible for advancing the
// counterparty past the packet's timeout first.
func (ep *Endpoint) TimeoutPacket(packet channel.Packet) (*engine.Result, error) {
	src := ep.Counterparty
	ep.flushCounterparty()

	msg := &channel.MsgTimeout{Packet: packet}
	if ep.Order == types.ORDERED {
		value := src.Chain.QueryValue(host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel))
		msg.NextSequenceRecv = sdk.BigEndianToUint64(value)
		msg.ProofUnreceived, msg.ProofHeight = src.Chain.QueryProof(
			host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel))
	} else {
		msg.ProofUnreceived, msg.ProofHeight = src.Chain.QueryProof(
			host.PacketReceiptPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
	}

	return ep.Chain.Deliver(msg)
}

// TimeoutPacketOnClose voids a sent packet after the counterparty closed its
// channel end without receiving it.
func (ep *Endpoint) TimeoutPacketOnClose(packet channel.Packet) (*engine.Result, error) {
	src := ep.Counterparty
	ep.flushCounterparty()

	msg := &channel.MsgTimeoutOnClose{Packet: packet}
	msg.ProofClose, _ = src.Chain.QueryProof(host.ChannelPath(src.PortID, src.ChannelID))
	if ep.Order == types.ORDERED {
		value := src.Chain.QueryValue(host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel))
		msg.NextSequenceRecv = sdk.BigEndianToUint64(value)
		msg.ProofUnreceived, msg.ProofHeight = src.Chain.QueryProof(
			host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel))
	} else {
		msg.ProofUnreceived, msg.ProofHeight = src.Chain.QueryProof(
			host.PacketReceiptPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
	}

	return ep.Chain.Deliver(msg)
}

func eventAttribute(t *testing.T, res *engine.Result, eventType, key string) string {
	for _, event := range res.Events {
		if event.Type != eventType {
			continue
		}
		if value, ok := event.GetAttribute(key); ok {
			return value
		}
	}
	require.Failf(t, "event attribute not found", "event %s, attribute %s", eventType, key)
	return ""
}
