// Package crypto implements the cryptographic primitives for the envelope
// codec.
//
// This package provides nonce generation, keystream derivation, payload
// signing and memory-safe handling of key material. Everything here is a
// pure, call-scoped computation; no state is kept between calls.
//
// # Nonces
//
// A nonce is 19 ASCII digits: a 13-digit millisecond timestamp followed by
// a 6-digit zero-padded random value. A fresh nonce is generated per
// encode; uniqueness is probabilistic, not guaranteed, and the nonce is not
// a security boundary beyond keystream diversification.
//
//	nonce, err := crypto.GenerateNonce()
//
// # Keystreams
//
// The keystream diversifies the obfuscation key with the per-message nonce
// and is what actually gets XORed against plaintext fields:
//
//	ks, _ := crypto.DeriveKeystream(obfuscationKey, nonce)
//	ciphertext := crypto.ApplyKeystream(plaintext, ks)
//
// ApplyKeystream is its own inverse, so the same call decrypts.
//
// # Signatures
//
// SignPayload computes a lowercase-hex HMAC-SHA256 over payload followed by
// nonce. VerifySignature recomputes and compares in constant time.
//
// # Deterministic Testing
//
// Nonce generation depends on wall-clock time through an injectable
// [TimeProvider]:
//
//	crypto.SetDefaultTimeProvider(&crypto.MockTimeProvider{CurrentTime: time.UnixMilli(1700000000000)})
//	defer crypto.SetDefaultTimeProvider(nil)
//
// # Secure Memory Handling
//
// Key material copied into scratch buffers should be wiped after use:
//
//	defer crypto.ZeroBytes(keystream)
package crypto
