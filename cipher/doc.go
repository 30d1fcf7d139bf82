// Package cipher defines the pluggable payload obfuscation layer of the
// envelope codec.
//
// A [Strategy] is an interchangeable encrypt/decrypt pair. The codec
// installs exactly one strategy at construction; both sides of a link must
// use the same one, since a mismatch is detectable only through signature
// failure on decode.
//
// Three strategies ship with the package:
//
//   - [KeystreamXOR]: the default. XORs the payload with the keystream
//     derived from the obfuscation key and nonce. Ciphertext length equals
//     payload length, which keeps the envelope at its minimum size.
//   - [ChaChaPoly]: authenticated encryption over the Noise
//     ChaCha20-Poly1305 cipher functions. Ciphertext carries a 16-byte tag,
//     so envelopes grow accordingly.
//   - [Func]: adapter for a caller-supplied encrypt/decrypt function pair.
//
// Every strategy must satisfy Decrypt(Encrypt(p, n), n) == p for all
// payloads p and nonces n.
package cipher
