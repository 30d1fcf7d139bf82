package envelope

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/envelope/cipher"
	"github.com/opd-ai/envelope/crypto"
	"github.com/opd-ai/envelope/limits"
	"github.com/opd-ai/envelope/token"
)

var (
	// ErrCommandTooLong indicates a command over the 32-byte limit. It is
	// raised before any cryptographic work.
	ErrCommandTooLong = limits.ErrCommandTooLong

	// ErrMalformedEnvelope indicates input below the minimum envelope
	// length. No field extraction is attempted on such input.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrAuthenticationFailed indicates a signature mismatch on payload
	// verification. Tampering, a wrong signing key and a cipher strategy
	// mismatch are indistinguishable; discard the envelope silently.
	ErrAuthenticationFailed = errors.New("envelope authentication failed")
)

// Codec encodes and decodes authenticated envelopes. It is immutable after
// New and safe for concurrent use.
type Codec struct {
	signingKey     []byte
	obfuscationKey []byte
	strategy       cipher.Strategy
	timeProvider   crypto.TimeProvider
}

// New creates a Codec over the key pair served by the provider. A nil
// options value selects the defaults: keystream-XOR payload strategy and
// the package-level clock. Key resolution happens once, here; the provider
// is not consulted again.
func New(provider token.Provider, options *Options) (*Codec, error) {
	if provider == nil {
		return nil, errors.New("token provider is required")
	}
	if options == nil {
		options = NewOptions()
	}

	signingKey, err := provider.SigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve signing key: %w", err)
	}
	obfuscationKey, err := provider.ObfuscationKey()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve obfuscation key: %w", err)
	}
	if signingKey == "" || obfuscationKey == "" {
		return nil, token.ErrEmptyKey
	}

	strategy := options.Strategy
	if strategy == nil {
		strategy, err = cipher.NewKeystreamXOR([]byte(obfuscationKey))
		if err != nil {
			return nil, fmt.Errorf("failed to build default strategy: %w", err)
		}
	}

	return &Codec{
		signingKey:     []byte(signingKey),
		obfuscationKey: []byte(obfuscationKey),
		strategy:       strategy,
		timeProvider:   options.TimeProvider,
	}, nil
}

// Encode builds the wire envelope for a command and payload. The command
// is at most 32 bytes; the payload is unrestricted. Every call draws a
// fresh nonce, so identical inputs never produce identical envelopes.
//
// The signature binds the payload and nonce; the command field is bound
// only by keystream obfuscation.
func (c *Codec) Encode(command, payload string) (string, error) {
	if err := limits.ValidateCommand(command); err != nil {
		return "", err
	}

	nonce, err := c.generateNonce()
	if err != nil {
		return "", err
	}
	nonceBytes := []byte(nonce)

	signature := crypto.SignPayload(c.signingKey, []byte(payload), nonceBytes)

	keystream, err := crypto.DeriveKeystream(c.obfuscationKey, nonceBytes)
	if err != nil {
		return "", err
	}
	defer crypto.ZeroBytes(keystream)
	cipherCommand := crypto.ApplyKeystream(padCommand(command), keystream)

	cipherPayload, err := c.strategy.Encrypt([]byte(payload), nonceBytes)
	if err != nil {
		return "", fmt.Errorf("cipher strategy failed: %w", err)
	}

	var b strings.Builder
	b.Grow(limits.MinEnvelopeSize + len(cipherPayload))
	b.WriteString(nonce)
	b.WriteString(signature)
	b.Write(cipherCommand)
	b.Write(cipherPayload)

	logrus.WithFields(logrus.Fields{
		"function":      "Encode",
		"command_size":  len(command),
		"payload_size":  len(payload),
		"envelope_size": b.Len(),
	}).Debug("Encoded envelope")

	return b.String(), nil
}

// VerifyCommand reports whether the envelope's command field matches the
// expected command. The check is independent of the signature: it proves
// only that both sides share the obfuscation key and nonce-derived
// keystream, not that the payload is authentic. A short envelope is no
// match, not an error.
func (c *Codec) VerifyCommand(envelope, command string) (bool, error) {
	if err := limits.ValidateCommand(command); err != nil {
		return false, err
	}
	f, ok := splitEnvelope(envelope)
	if !ok {
		return false, nil
	}

	keystream, err := crypto.DeriveKeystream(c.obfuscationKey, f.nonce)
	if err != nil {
		return false, err
	}
	defer crypto.ZeroBytes(keystream)

	expected := crypto.ApplyKeystream(padCommand(command), keystream)
	return hmac.Equal(expected, f.cipherCommand), nil
}

// MatchCommand recovers the envelope's command once and tests it against
// each candidate in list order, returning the first exact match. The whole
// candidate list is validated before any comparison. A short envelope or
// an empty list is no match.
//
// Trailing '=' padding is stripped from the recovered command, so a
// legitimate command ending in '=' will not match itself.
func (c *Codec) MatchCommand(envelope string, candidates []string) (string, bool, error) {
	if err := limits.ValidateCommands(candidates); err != nil {
		return "", false, err
	}
	f, ok := splitEnvelope(envelope)
	if !ok {
		return "", false, nil
	}

	keystream, err := crypto.DeriveKeystream(c.obfuscationKey, f.nonce)
	if err != nil {
		return "", false, err
	}
	defer crypto.ZeroBytes(keystream)

	plain := crypto.ApplyKeystream(f.cipherCommand, keystream)
	recovered := strings.TrimRight(string(plain), string(limits.CommandPadding))

	for _, candidate := range candidates {
		if candidate == recovered {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// DecodePayload recovers and authenticates the envelope's payload. The
// payload field is decrypted with the installed strategy, then the
// signature is recomputed over the recovered payload and nonce and
// compared in constant time. This is the only operation that performs
// cryptographic authentication.
func (c *Codec) DecodePayload(envelope string) (string, error) {
	f, ok := splitEnvelope(envelope)
	if !ok {
		return "", fmt.Errorf("%w: length %d below minimum %d", ErrMalformedEnvelope, len(envelope), limits.MinEnvelopeSize)
	}

	payload, err := c.strategy.Decrypt(f.cipherPayload, f.nonce)
	if err != nil {
		// A failing strategy and a forged signature land in the same
		// place: the envelope cannot be authenticated.
		logrus.WithFields(logrus.Fields{
			"function": "DecodePayload",
			"error":    err.Error(),
		}).Warn("Cipher strategy rejected payload")
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	if !crypto.VerifySignature(c.signingKey, payload, f.nonce, string(f.signature)) {
		logrus.WithFields(logrus.Fields{
			"function":      "DecodePayload",
			"envelope_size": len(envelope),
		}).Warn("Envelope signature mismatch")
		return "", ErrAuthenticationFailed
	}

	return string(payload), nil
}

func (c *Codec) generateNonce() (string, error) {
	tp := c.timeProvider
	if tp == nil {
		tp = crypto.GetDefaultTimeProvider()
	}
	return crypto.GenerateNonceWithTime(tp)
}

// envelopeFields holds the four wire fields of a parsed envelope.
type envelopeFields struct {
	nonce         []byte
	signature     []byte
	cipherCommand []byte
	cipherPayload []byte
}

// splitEnvelope extracts the fixed-offset fields. It reports false for
// anything below the minimum envelope length.
func splitEnvelope(envelope string) (envelopeFields, bool) {
	if limits.ValidateEnvelope(envelope) != nil {
		return envelopeFields{}, false
	}
	raw := []byte(envelope)
	return envelopeFields{
		nonce:         raw[:limits.SignatureOffset],
		signature:     raw[limits.SignatureOffset:limits.CommandOffset],
		cipherCommand: raw[limits.CommandOffset:limits.PayloadOffset],
		cipherPayload: raw[limits.PayloadOffset:],
	}, true
}

// padCommand canonicalizes a command to the fixed command field width by
// right-padding with '='.
func padCommand(command string) []byte {
	padded := make([]byte, limits.CommandFieldSize)
	copy(padded, command)
	for i := len(command); i < limits.CommandFieldSize; i++ {
		padded[i] = limits.CommandPadding
	}
	return padded
}
