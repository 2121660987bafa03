package enginetest

import "testing"

// Coordinator owns the chains of a test and drives multi-step flows across
// them.
type Coordinator struct {
	t *testing.T

	ChainA *Chain
	ChainB *Chain
}

// NewCoordinator sets up two fresh chains.
func NewCoordinator(t *testing.T) *Coordinator {
	return &Coordinator{
		t:      t,
		ChainA: NewChain(t, "chain-a"),
		ChainB: NewChain(t, "chain-b"),
	}
}

// Setup runs clients, a connection handshake and a channel handshake over
// the path, leaving both ends OPEN.
func (c *Coordinator) Setup(path *Path) {
	c.SetupClients(path)
	c.SetupConnections(path)
	c.SetupChannels(path)
}

// SetupClients creates a client on each chain tracking the other.
func (c *Coordinator) SetupClients(path *Path) {
	path.EndpointA.CreateClient()
	path.EndpointB.CreateClient()
}

// SetupConnections runs the full connection handshake, initiated by
// endpoint A.
func (c *Coordinator) SetupConnections(path *Path) {
	path.EndpointA.ConnOpenInit()
	path.EndpointB.ConnOpenTry()
	path.EndpointA.ConnOpenAck()
	path.EndpointB.ConnOpenConfirm()
}

// SetupChannels runs the full channel handshake, initiated by endpoint A.
func (c *Coordinator) SetupChannels(path *Path) {
	path.EndpointA.ChanOpenInit()
	path.EndpointB.ChanOpenTry()
	path.EndpointA.ChanOpenAck()
	path.EndpointB.ChanOpenConfirm()
}
