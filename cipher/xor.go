package cipher

import (
	"github.com/opd-ai/envelope/crypto"
)

// KeystreamXOR is the default payload strategy: it XORs the payload with
// the keystream derived from the obfuscation key and the envelope nonce.
// Ciphertext length always equals payload length. Encrypt and Decrypt are
// the same operation, since XOR is its own inverse.
type KeystreamXOR struct {
	key []byte
}

// NewKeystreamXOR creates the default strategy over an obfuscation key.
// The key must be non-empty.
func NewKeystreamXOR(obfuscationKey []byte) (*KeystreamXOR, error) {
	if len(obfuscationKey) == 0 {
		return nil, crypto.ErrEmptyKey
	}
	key := make([]byte, len(obfuscationKey))
	copy(key, obfuscationKey)
	return &KeystreamXOR{key: key}, nil
}

// Encrypt obfuscates the payload with the nonce-derived keystream.
func (s *KeystreamXOR) Encrypt(payload, nonce []byte) ([]byte, error) {
	return s.apply(payload, nonce)
}

// Decrypt recovers the payload from its obfuscated form.
func (s *KeystreamXOR) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	return s.apply(ciphertext, nonce)
}

func (s *KeystreamXOR) apply(data, nonce []byte) ([]byte, error) {
	keystream, err := crypto.DeriveKeystream(s.key, nonce)
	if err != nil {
		return nil, err
	}
	defer crypto.ZeroBytes(keystream)
	return crypto.ApplyKeystream(data, keystream), nil
}
