package model

import (
	"time"

	"github.com/google/uuid"
)

// IncomingRequest is a credential pushed to the relay, waiting for the user
// to pick a type. It is never persisted as-is.
type IncomingRequest struct {
	RequestID  uuid.UUID
	ID         string
	Name       string
	ReceivedAt time.Time
}

// NewIncomingRequest stamps a relay payload with a request ID and receive time.
func NewIncomingRequest(id, name string) IncomingRequest {
	return IncomingRequest{
		RequestID:  uuid.New(),
		ID:         id,
		Name:       name,
		ReceivedAt: time.Now(),
	}
}

// ToMapping converts the request into the mapping stored once a type is chosen.
func (r IncomingRequest) ToMapping() Mapping {
	return Mapping{ID: r.ID, Name: r.Name}
}
