package limits

import (
	"errors"
	"strings"
	"testing"
)

func TestFieldOffsets(t *testing.T) {
	if SignatureOffset != 19 {
		t.Errorf("SignatureOffset = %d, want 19", SignatureOffset)
	}
	if CommandOffset != 83 {
		t.Errorf("CommandOffset = %d, want 83", CommandOffset)
	}
	if PayloadOffset != 115 {
		t.Errorf("PayloadOffset = %d, want 115", PayloadOffset)
	}
	if MinEnvelopeSize != 115 {
		t.Errorf("MinEnvelopeSize = %d, want 115", MinEnvelopeSize)
	}
}

func TestValidateCommand(t *testing.T) {
	cases := []struct {
		name      string
		command   string
		wantError bool
	}{
		{"Empty command", "", false},
		{"Short command", "ping", false},
		{"Exactly at limit", strings.Repeat("a", MaxCommandLength), false},
		{"One over limit", strings.Repeat("a", MaxCommandLength+1), true},
		{"Far over limit", strings.Repeat("a", 100), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCommand(tc.command)
			if tc.wantError && !errors.Is(err, ErrCommandTooLong) {
				t.Errorf("ValidateCommand(%q) = %v, want ErrCommandTooLong", tc.command, err)
			}
			if !tc.wantError && err != nil {
				t.Errorf("ValidateCommand(%q) = %v, want nil", tc.command, err)
			}
		})
	}
}

func TestValidateCommands(t *testing.T) {
	if err := ValidateCommands(nil); err != nil {
		t.Errorf("ValidateCommands(nil) = %v, want nil", err)
	}

	if err := ValidateCommands([]string{"a", "b", "c"}); err != nil {
		t.Errorf("ValidateCommands(valid list) = %v, want nil", err)
	}

	// A bad candidate anywhere in the list fails the whole call.
	bad := []string{"ok", strings.Repeat("x", MaxCommandLength+1), "also-ok"}
	err := ValidateCommands(bad)
	if !errors.Is(err, ErrCommandTooLong) {
		t.Errorf("ValidateCommands(oversized candidate) = %v, want ErrCommandTooLong", err)
	}
}

func TestValidateEnvelope(t *testing.T) {
	if err := ValidateEnvelope(strings.Repeat("0", MinEnvelopeSize)); err != nil {
		t.Errorf("ValidateEnvelope(minimum length) = %v, want nil", err)
	}

	err := ValidateEnvelope(strings.Repeat("0", MinEnvelopeSize-1))
	if !errors.Is(err, ErrEnvelopeTooShort) {
		t.Errorf("ValidateEnvelope(short) = %v, want ErrEnvelopeTooShort", err)
	}

	if err := ValidateEnvelope(""); !errors.Is(err, ErrEnvelopeTooShort) {
		t.Errorf("ValidateEnvelope(empty) = %v, want ErrEnvelopeTooShort", err)
	}
}
