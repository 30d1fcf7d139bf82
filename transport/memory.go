package transport

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryBus is an in-process Bus. Delivery is synchronous and in
// registration order; a handler that blocks stalls the broadcast.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

// RegisterHandler adds a handler for future broadcasts.
func (b *MemoryBus) RegisterHandler(handler Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
}

// Broadcast delivers the envelope to every registered handler.
func (b *MemoryBus) Broadcast(envelope string) error {
	b.mu.RLock()
	closed := b.closed
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	if closed {
		return ErrClosed
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Broadcast",
		"envelope_size": len(envelope),
		"handlers":      len(handlers),
	}).Debug("Broadcasting envelope")

	for _, handler := range handlers {
		handler(envelope)
	}
	return nil
}

// Close shuts the bus down and drops all handlers.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.handlers = nil
	b.mu.Unlock()
	return nil
}
