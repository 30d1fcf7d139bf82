// Package envelope implements a compact authenticated message envelope
// codec.
//
// The codec binds a short command tag and an arbitrary payload into a
// single fixed-layout text string that is tamper-evident, and later
// recovers the command and payload while rejecting anything altered in
// transit. Envelopes are plain text and travel over any transport that can
// carry an opaque string.
//
// # Wire Format
//
// An envelope is four fields concatenated with no delimiters:
//
//	offset  length  content
//	0       19      nonce: 13-digit ms timestamp + 6-digit random, ASCII digits
//	19      64      lowercase hex HMAC-SHA256 of payload||nonce
//	83      32      command, '='-padded to 32 bytes, keystream-obfuscated
//	115     -       payload, obfuscated or encrypted by the cipher strategy
//
// With the default strategy the envelope is exactly 115 bytes plus the
// payload length. Anything shorter than 115 bytes is categorically invalid.
//
// The signature covers the payload and nonce only; the command field is
// protected solely by keystream obfuscation.
//
// # Usage
//
//	codec, err := envelope.New(token.DefaultStatic(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	env, err := codec.Encode("status-update", "all systems nominal")
//
//	// Receiving side, same key pair:
//	if ok, _ := codec.VerifyCommand(env, "status-update"); ok {
//	    payload, err := codec.DecodePayload(env)
//	    ...
//	}
//
// Two Encode calls with identical inputs produce different envelopes
// (fresh nonce each call) that both decode to the same command and
// payload.
//
// # Error Handling
//
// Argument errors and cryptographic failures are distinct sentinel errors:
//
//   - [ErrCommandTooLong]: a command over 32 bytes, rejected before any
//     cryptographic work.
//   - [ErrMalformedEnvelope]: input below the minimum envelope length.
//   - [ErrAuthenticationFailed]: signature mismatch on DecodePayload.
//     Tampering, a wrong signing key and a cipher strategy mismatch are
//     indistinguishable here; callers should discard the envelope
//     silently.
//
// Check them with errors.Is.
//
// # Concurrency
//
// A Codec is immutable after New and safe for concurrent use, provided a
// custom cipher strategy is itself side-effect-free. There is no shared
// state between calls.
//
// # Integration
//
// This package integrates with its subpackages:
//
//   - token/: key pair providers (static fallback, encrypted at-rest store)
//   - cipher/: pluggable payload strategies (keystream XOR, ChaCha20-Poly1305)
//   - transport/: opaque-envelope broadcast bus
//   - crypto/: nonce, keystream, signature primitives
//   - limits/: wire-format sizes and validation
package envelope
