package envelope

import (
	"github.com/opd-ai/envelope/cipher"
	"github.com/opd-ai/envelope/crypto"
)

// Options configures a Codec.
type Options struct {
	// Strategy is the payload cipher strategy. Nil selects the default
	// keystream XOR over the obfuscation key. Both ends of a link must
	// install the same strategy; a mismatch surfaces only as an
	// authentication failure on decode.
	Strategy cipher.Strategy

	// TimeProvider supplies the nonce timestamp. Nil selects the
	// package-level default clock.
	TimeProvider crypto.TimeProvider
}

// NewOptions creates an Options with default settings.
func NewOptions() *Options {
	return &Options{}
}
