package types

// Event is a structured notification emitted by a successful execute phase.
// Relayers and indexers key off the exact event type and attribute names, so
// these are part of the protocol surface, not free-form logging.
type Event struct {
	Type       string
	Attributes []EventAttribute
}

// EventAttribute is a single key/value pair on an event.
type EventAttribute struct {
	Key   string
	Value string
}

// NewEvent builds an event from a type and attribute pairs.
func NewEvent(eventType string, attrs ...EventAttribute) Event {
	return Event{Type: eventType, Attributes: attrs}
}

// NewAttribute builds a single event attribute.
func NewAttribute(key, value string) EventAttribute {
	return EventAttribute{Key: key, Value: value}
}

// GetAttribute returns the value of the named attribute, if present.
func (e Event) GetAttribute(key string) (string, bool) {
	for _, attr := range e.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}
