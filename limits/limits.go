// Package limits provides centralized wire-format sizes for the envelope
// codec. This ensures consistent validation across different components of
// the system.
package limits

import (
	"errors"
	"fmt"
)

const (
	// NonceSize is the length of the envelope nonce field: a 13-digit
	// millisecond timestamp followed by a 6-digit zero-padded random value,
	// all ASCII digits.
	NonceSize = 19

	// SignatureSize is the length of the hex-encoded HMAC-SHA256 signature.
	SignatureSize = 64

	// CommandFieldSize is the fixed width of the obfuscated command field.
	// Commands shorter than this are padded with CommandPadding before
	// obfuscation.
	CommandFieldSize = 32

	// MaxCommandLength is the maximum raw command length. A longer command
	// cannot be canonicalized into the fixed-width command field.
	MaxCommandLength = CommandFieldSize

	// CommandPadding is the sentinel byte used to right-pad commands to
	// CommandFieldSize.
	CommandPadding = '='

	// SignatureOffset is the byte offset of the signature field.
	SignatureOffset = NonceSize

	// CommandOffset is the byte offset of the obfuscated command field.
	CommandOffset = SignatureOffset + SignatureSize

	// PayloadOffset is the byte offset of the obfuscated payload field.
	PayloadOffset = CommandOffset + CommandFieldSize

	// MinEnvelopeSize is the length of an envelope carrying an empty
	// payload. Anything shorter is categorically invalid and must be
	// rejected before field extraction.
	MinEnvelopeSize = PayloadOffset
)

var (
	// ErrCommandTooLong indicates a command exceeds MaxCommandLength.
	ErrCommandTooLong = errors.New("command too long")

	// ErrEnvelopeTooShort indicates an envelope below MinEnvelopeSize.
	ErrEnvelopeTooShort = errors.New("envelope too short")
)

// ValidateCommand validates a single command against MaxCommandLength.
// The empty command is allowed; it canonicalizes to all padding.
func ValidateCommand(command string) error {
	if len(command) > MaxCommandLength {
		return fmt.Errorf("%w: length %d exceeds limit %d", ErrCommandTooLong, len(command), MaxCommandLength)
	}
	return nil
}

// ValidateCommands validates every command in a candidate list. The whole
// list is checked before any comparison so that an oversized candidate late
// in the list fails the call even when an earlier candidate would have
// matched.
func ValidateCommands(commands []string) error {
	for i, command := range commands {
		if err := ValidateCommand(command); err != nil {
			return fmt.Errorf("candidate %d: %w", i, err)
		}
	}
	return nil
}

// ValidateEnvelope checks an envelope against the minimum valid length.
func ValidateEnvelope(envelope string) error {
	if len(envelope) < MinEnvelopeSize {
		return fmt.Errorf("%w: length %d below minimum %d", ErrEnvelopeTooShort, len(envelope), MinEnvelopeSize)
	}
	return nil
}
