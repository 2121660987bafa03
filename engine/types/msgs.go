package types

// Msg is a message relayed from a counterparty chain (or, for client
// creation, submitted locally). Messages originate from an untrusted relayer:
// ValidateBasic must be total over arbitrary field contents and perform only
// stateless checks. Stateful checks belong to the handler validate phase.
type Msg interface {
	// Route returns the subsystem that handles the message.
	Route() string

	// Type returns the message name used in logs and metrics.
	Type() string

	// ValidateBasic performs stateless sanity checks.
	ValidateBasic() error
}

// Subsystem route identifiers.
const (
	RouterKeyClient     = "client"
	RouterKeyConnection = "connection"
	RouterKeyChannel    = "channel"
)
