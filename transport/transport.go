// Package transport carries envelopes between participants.
//
// The transport never interprets an envelope; it moves opaque strings. All
// authentication and recovery happens in the codec on either side.
//
// Example:
//
//	bus := transport.NewMemoryBus()
//	bus.RegisterHandler(func(envelope string) {
//	    payload, err := codec.DecodePayload(envelope)
//	    ...
//	})
//
//	err = bus.Broadcast(envelope)
package transport

import "errors"

// ErrClosed indicates a broadcast on a closed bus.
var ErrClosed = errors.New("transport is closed")

// Handler receives every envelope broadcast on a bus.
type Handler func(envelope string)

// Bus is a broadcast transport for opaque envelope strings.
type Bus interface {
	// Broadcast delivers the envelope to every registered handler.
	Broadcast(envelope string) error

	// RegisterHandler adds a handler for future broadcasts.
	RegisterHandler(handler Handler)

	// Close shuts the bus down; further broadcasts fail with ErrClosed.
	Close() error
}
