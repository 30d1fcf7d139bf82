package cipher

import "errors"

// ErrNilFunc indicates a Func strategy missing one of its two functions.
var ErrNilFunc = errors.New("cipher func strategy requires both encrypt and decrypt functions")

// Strategy transforms payloads to and from their wire representation.
// Implementations must be side-effect-free so the codec stays safe for
// concurrent use, and Decrypt must exactly invert Encrypt for every
// payload/nonce pair.
type Strategy interface {
	// Encrypt transforms a payload for the wire. The nonce is the
	// envelope's 19-digit nonce; the returned ciphertext may differ in
	// length from the payload.
	Encrypt(payload, nonce []byte) ([]byte, error)

	// Decrypt inverts Encrypt under the same nonce.
	Decrypt(ciphertext, nonce []byte) ([]byte, error)
}

// Func adapts a caller-supplied encrypt/decrypt function pair into a
// Strategy.
type Func struct {
	EncryptFunc func(payload, nonce []byte) ([]byte, error)
	DecryptFunc func(ciphertext, nonce []byte) ([]byte, error)
}

// NewFunc wraps an encrypt/decrypt pair. Both functions are required.
func NewFunc(encrypt, decrypt func(data, nonce []byte) ([]byte, error)) (*Func, error) {
	if encrypt == nil || decrypt == nil {
		return nil, ErrNilFunc
	}
	return &Func{EncryptFunc: encrypt, DecryptFunc: decrypt}, nil
}

// Encrypt calls the wrapped encrypt function.
func (f *Func) Encrypt(payload, nonce []byte) ([]byte, error) {
	return f.EncryptFunc(payload, nonce)
}

// Decrypt calls the wrapped decrypt function.
func (f *Func) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	return f.DecryptFunc(ciphertext, nonce)
}
