package cipher

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/flynn/noise"

	"github.com/opd-ai/envelope/crypto"
)

// ChaChaPoly encrypts payloads with ChaCha20-Poly1305 via the Noise cipher
// functions. Unlike the default keystream XOR, the ciphertext is
// authenticated on its own and carries a 16-byte tag, so envelopes built
// with this strategy are 16 bytes longer than their payload would suggest.
//
// The AEAD nonce is derived from the envelope nonce digits, and the digits
// are additionally bound as associated data, so a ciphertext moved under a
// different envelope nonce fails to decrypt.
type ChaChaPoly struct {
	key [32]byte
}

// NewChaChaPoly creates an AEAD strategy from an obfuscation key of any
// length; the key is compressed to 256 bits with SHA-256.
func NewChaChaPoly(obfuscationKey []byte) (*ChaChaPoly, error) {
	if len(obfuscationKey) == 0 {
		return nil, crypto.ErrEmptyKey
	}
	return &ChaChaPoly{key: sha256.Sum256(obfuscationKey)}, nil
}

// Encrypt seals the payload under the nonce.
func (s *ChaChaPoly) Encrypt(payload, nonce []byte) ([]byte, error) {
	if len(nonce) == 0 {
		return nil, crypto.ErrEmptyNonce
	}
	c := noise.CipherChaChaPoly.Cipher(s.key)
	return c.Encrypt(nil, aeadNonce(nonce), nonce, payload), nil
}

// Decrypt opens a ciphertext sealed by Encrypt under the same nonce.
func (s *ChaChaPoly) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) == 0 {
		return nil, crypto.ErrEmptyNonce
	}
	if len(ciphertext) < 16 {
		return nil, errors.New("ciphertext shorter than authentication tag")
	}
	c := noise.CipherChaChaPoly.Cipher(s.key)
	plaintext, err := c.Decrypt(nil, aeadNonce(nonce), nonce, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("aead open failed: %w", err)
	}
	return plaintext, nil
}

// aeadNonce folds the 19 envelope nonce digits into the 64-bit counter the
// Noise cipher interface expects.
func aeadNonce(nonce []byte) uint64 {
	sum := sha256.Sum256(nonce)
	return binary.BigEndian.Uint64(sum[:8])
}
