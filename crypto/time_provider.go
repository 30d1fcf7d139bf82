package crypto

import (
	"sync"
	"time"
)

// TimeProvider abstracts the clock for deterministic testing.
// Implementations must be safe for concurrent use.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the standard library time functions.
type DefaultTimeProvider struct{}

// Now returns the current time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }

// MockTimeProvider returns a fixed time, for reproducible nonce tests.
type MockTimeProvider struct {
	mu          sync.Mutex
	CurrentTime time.Time
}

// Now returns the mock's current time.
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentTime
}

// Advance moves the mock clock forward.
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentTime = m.CurrentTime.Add(d)
}

var (
	timeProviderMu      sync.RWMutex
	defaultTimeProvider TimeProvider = DefaultTimeProvider{}
)

// SetDefaultTimeProvider sets the package-level time provider for testing.
// Pass nil to reset to the default implementation.
func SetDefaultTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	timeProviderMu.Lock()
	defaultTimeProvider = tp
	timeProviderMu.Unlock()
}

// GetDefaultTimeProvider returns the current package-level time provider.
func GetDefaultTimeProvider() TimeProvider {
	timeProviderMu.RLock()
	defer timeProviderMu.RUnlock()
	return defaultTimeProvider
}
