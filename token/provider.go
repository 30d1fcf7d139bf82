package token

import (
	"errors"
	"sync"
)

// ErrEmptyKey indicates a provider was configured with an empty key.
var ErrEmptyKey = errors.New("token keys must be non-empty")

// Provider supplies the codec's key pair. Implementations must be safe for
// concurrent use; the codec treats returned keys as immutable.
type Provider interface {
	SigningKey() (string, error)
	ObfuscationKey() (string, error)
}

// Fallback pair used when no secure key source is configured. Shared by
// every deployment that never provisions real keys; treat as public.
const (
	fallbackSigningKey     = "2f0e9b64c1d8a7531bb042ce96df8a10"
	fallbackObfuscationKey = "8d3a51c7e2f90b46aa17d48e05cb63f9"
)

// Static is a Provider over a fixed in-memory key pair.
type Static struct {
	signingKey     string
	obfuscationKey string
}

// NewStatic creates a provider over the given pair. Both keys must be
// non-empty.
func NewStatic(signingKey, obfuscationKey string) (*Static, error) {
	if signingKey == "" || obfuscationKey == "" {
		return nil, ErrEmptyKey
	}
	return &Static{signingKey: signingKey, obfuscationKey: obfuscationKey}, nil
}

// DefaultStatic returns the hard-coded fallback pair.
func DefaultStatic() *Static {
	return &Static{
		signingKey:     fallbackSigningKey,
		obfuscationKey: fallbackObfuscationKey,
	}
}

// SigningKey returns the signing key.
func (s *Static) SigningKey() (string, error) { return s.signingKey, nil }

// ObfuscationKey returns the obfuscation key.
func (s *Static) ObfuscationKey() (string, error) { return s.obfuscationKey, nil }

// Cached wraps a Provider and resolves its key pair exactly once. The
// first caller performs the resolution; concurrent first callers block on
// the same flight and share its outcome, including its error.
type Cached struct {
	inner Provider

	once           sync.Once
	signingKey     string
	obfuscationKey string
	err            error
}

// NewCached wraps a provider with single-flight resolution.
func NewCached(inner Provider) *Cached {
	return &Cached{inner: inner}
}

func (c *Cached) resolve() {
	c.once.Do(func() {
		c.signingKey, c.err = c.inner.SigningKey()
		if c.err != nil {
			return
		}
		c.obfuscationKey, c.err = c.inner.ObfuscationKey()
	})
}

// SigningKey returns the cached signing key.
func (c *Cached) SigningKey() (string, error) {
	c.resolve()
	return c.signingKey, c.err
}

// ObfuscationKey returns the cached obfuscation key.
func (c *Cached) ObfuscationKey() (string, error) {
	c.resolve()
	return c.obfuscationKey, c.err
}
