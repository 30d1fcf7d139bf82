package crypto

import "errors"

// ErrEmptyKey indicates an empty obfuscation key was provided.
var ErrEmptyKey = errors.New("empty obfuscation key")

// ErrEmptyNonce indicates an empty nonce was provided.
var ErrEmptyNonce = errors.New("empty nonce")

// DeriveKeystream derives the per-message keystream from the obfuscation
// key and nonce. The keystream has the same length as the key, with
//
//	keystream[i] = key[i] ^ nonce[i % len(nonce)]
//
// The keystream, not the raw key, is the value XORed against plaintext
// fields. Deterministic; fails only on empty inputs.
func DeriveKeystream(key, nonce []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if len(nonce) == 0 {
		return nil, ErrEmptyNonce
	}

	keystream := make([]byte, len(key))
	for i := range key {
		keystream[i] = key[i] ^ nonce[i%len(nonce)]
	}
	return keystream, nil
}

// ApplyKeystream XORs data with the keystream, cycling the keystream as
// needed. Applying the same keystream twice returns the original data, so
// one function serves both obfuscation and recovery. The keystream must be
// non-empty; the input slice is not modified.
func ApplyKeystream(data, keystream []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ keystream[i%len(keystream)]
	}
	return out
}
