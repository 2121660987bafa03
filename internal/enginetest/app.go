package enginetest

import "github.com/cosmos/ibc-engine/engine/channel"

// DefaultAck is the acknowledgement the harness application writes for every
// received packet.
var DefaultAck = []byte("mock acknowledgement")

// MockApp records every packet callback it receives.
type MockApp struct {
	Received     []channel.Packet
	Acknowledged []channel.Packet
	TimedOut     []channel.Packet

	// Ack overrides the acknowledgement returned by OnRecvPacket. A nil Ack
	// with AsyncAck set simulates an application acknowledging later.
	Ack      []byte
	AsyncAck bool
}

var _ interface {
	OnRecvPacket(channel.Packet) []byte
	OnAcknowledgementPacket(channel.Packet, []byte) error
	OnTimeoutPacket(channel.Packet) error
} = (*MockApp)(nil)

// NewMockApp returns an application that acknowledges synchronously with
// DefaultAck.
func NewMockApp() *MockApp {
	return &MockApp{Ack: DefaultAck}
}

// OnRecvPacket implements engine.AppModule.
func (a *MockApp) OnRecvPacket(packet channel.Packet) []byte {
	a.Received = append(a.Received, packet)
	if a.AsyncAck {
		return nil
	}
	return a.Ack
}

// OnAcknowledgementPacket implements engine.AppModule.
func (a *MockApp) OnAcknowledgementPacket(packet channel.Packet, _ []byte) error {
	a.Acknowledged = append(a.Acknowledged, packet)
	return nil
}

// OnTimeoutPacket implements engine.AppModule.
func (a *MockApp) OnTimeoutPacket(packet channel.Packet) error {
	a.TimedOut = append(a.TimedOut, packet)
	return nil
}
