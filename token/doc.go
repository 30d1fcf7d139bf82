// Package token supplies the long-lived key pair the envelope codec signs
// and obfuscates with.
//
// A [Provider] hands out two opaque strings: the signing key (HMAC) and the
// obfuscation key (keystream). The codec never cares where they come from;
// this package offers three sources:
//
//   - [Static]: a fixed in-memory pair. [DefaultStatic] returns the
//     well-known fallback pair used when no secure source is configured.
//   - [Stored]: a pair persisted in an [EncryptedKeyStore] (PBKDF2-derived
//     AES-256-GCM at rest). A fresh random pair is generated and persisted
//     on first use; if storage cannot be opened the provider degrades to
//     the fallback pair instead of failing.
//   - [Cached]: wraps any Provider and resolves the pair exactly once,
//     safe under concurrent first use.
package token
