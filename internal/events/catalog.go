package events

import "github.com/ytget/credential-mapper/internal/model"

// Event names.
const (
	NameIncomingMappingReceived = "relay.mapping.received"
	NameServerStatusChanged     = "relay.status.changed"
	NameMappingsChanged         = "catalog.mappings.changed"
)

// IncomingMappingReceived is published when the relay accepts a credential
// that still needs a type.
type IncomingMappingReceived struct {
	BaseEvent
	Request model.IncomingRequest `json:"request"`
}

func (e IncomingMappingReceived) EventName() string { return NameIncomingMappingReceived }

// ServerStatusChanged is published after the relay starts or stops.
type ServerStatusChanged struct {
	BaseEvent
	Running bool   `json:"running"`
	Addr    string `json:"addr"`
}

func (e ServerStatusChanged) EventName() string { return NameServerStatusChanged }

// MappingsChanged is published after a mapping is saved or deleted.
type MappingsChanged struct {
	BaseEvent
	Type    string `json:"type"`
	Deleted bool   `json:"deleted"`
}

func (e MappingsChanged) EventName() string { return NameMappingsChanged }
