package envelope

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/envelope/cipher"
	"github.com/opd-ai/envelope/limits"
	"github.com/opd-ai/envelope/token"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	provider, err := token.NewStatic("test-signing-key", "test-obfuscation-key")
	require.NoError(t, err)
	codec, err := New(provider, nil)
	require.NoError(t, err)
	return codec
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	cases := []struct {
		name    string
		command string
		payload string
	}{
		{"Simple", "hello", "world"},
		{"Empty payload", "cmd", ""},
		{"Empty command", "", "payload without a command"},
		{"Long payload", "bulk", strings.Repeat("0123456789", 500)},
		{"UTF-8 payload", "note", "héllo wörld ✓"},
		{"Command at limit", strings.Repeat("c", 32), "payload"},
		{"Command with inner equals", "a=b", "payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := codec.Encode(tc.command, tc.payload)
			require.NoError(t, err)

			ok, err := codec.VerifyCommand(env, tc.command)
			require.NoError(t, err)
			assert.True(t, ok, "encoded command must verify")

			payload, err := codec.DecodePayload(env)
			require.NoError(t, err)
			assert.Equal(t, tc.payload, payload)
		})
	}
}

func TestEncodeNonDeterministic(t *testing.T) {
	codec := newTestCodec(t)

	env1, err := codec.Encode("hello", "world")
	require.NoError(t, err)
	env2, err := codec.Encode("hello", "world")
	require.NoError(t, err)

	assert.NotEqual(t, env1, env2, "identical inputs must yield different envelopes")

	for _, env := range []string{env1, env2} {
		payload, err := codec.DecodePayload(env)
		require.NoError(t, err)
		assert.Equal(t, "world", payload)

		ok, err := codec.VerifyCommand(env, "hello")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestEnvelopeLengthInvariant(t *testing.T) {
	codec := newTestCodec(t)

	for _, payload := range []string{"", "x", "world", strings.Repeat("p", 1000)} {
		env, err := codec.Encode("cmd", payload)
		require.NoError(t, err)
		assert.Equal(t, limits.MinEnvelopeSize+len(payload), len(env))
	}
}

func TestConcreteScenarios(t *testing.T) {
	codec := newTestCodec(t)

	env, err := codec.Encode("hello", "world")
	require.NoError(t, err)
	assert.Len(t, env, 120)

	ok, err := codec.VerifyCommand(env, "hello")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = codec.VerifyCommand(env, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	payload, err := codec.DecodePayload(env)
	require.NoError(t, err)
	assert.Equal(t, "world", payload)

	empty, err := codec.Encode("cmd", "")
	require.NoError(t, err)
	assert.Len(t, empty, 115)

	payload, err = codec.DecodePayload(empty)
	require.NoError(t, err)
	assert.Equal(t, "", payload)
}

func TestCommandBoundary(t *testing.T) {
	codec := newTestCodec(t)

	exact := strings.Repeat("a", 32)
	env, err := codec.Encode(exact, "payload")
	require.NoError(t, err)

	ok, err := codec.VerifyCommand(env, exact)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = codec.Encode(strings.Repeat("a", 33), "payload")
	assert.True(t, errors.Is(err, ErrCommandTooLong))

	_, err = codec.VerifyCommand(env, strings.Repeat("a", 33))
	assert.True(t, errors.Is(err, ErrCommandTooLong))
}

// flipByte returns the envelope with the byte at index XORed against 0x01,
// guaranteeing a change.
func flipByte(envelope string, index int) string {
	raw := []byte(envelope)
	raw[index] ^= 0x01
	return string(raw)
}

func TestTamperDetection(t *testing.T) {
	codec := newTestCodec(t)

	env, err := codec.Encode("hello", "world")
	require.NoError(t, err)

	cases := []struct {
		name  string
		index int
	}{
		{"Nonce field", 3},
		{"Signature field", limits.SignatureOffset + 10},
		{"Payload field", limits.PayloadOffset + 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tampered := flipByte(env, tc.index)
			_, err := codec.DecodePayload(tampered)
			assert.True(t, errors.Is(err, ErrAuthenticationFailed),
				"tampering at index %d must fail authentication, got %v", tc.index, err)
		})
	}

	t.Run("Command field", func(t *testing.T) {
		tampered := flipByte(env, limits.CommandOffset+1)
		ok, err := codec.VerifyCommand(tampered, "hello")
		require.NoError(t, err)
		assert.False(t, ok, "tampered command field must not verify")
	})
}

func TestMalformedEnvelope(t *testing.T) {
	codec := newTestCodec(t)

	for _, env := range []string{"", "short", strings.Repeat("0", limits.MinEnvelopeSize-1)} {
		_, err := codec.DecodePayload(env)
		assert.True(t, errors.Is(err, ErrMalformedEnvelope), "DecodePayload(%d bytes) = %v", len(env), err)

		ok, err := codec.VerifyCommand(env, "hello")
		require.NoError(t, err)
		assert.False(t, ok)

		_, matched, err := codec.MatchCommand(env, []string{"hello"})
		require.NoError(t, err)
		assert.False(t, matched)
	}
}

func TestMatchCommand(t *testing.T) {
	codec := newTestCodec(t)

	env, err := codec.Encode("deploy", "payload")
	require.NoError(t, err)

	cmd, ok, err := codec.MatchCommand(env, []string{"status", "deploy", "rollback"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "deploy", cmd)

	// Order and differing candidate lengths do not matter.
	cmd, ok, err = codec.MatchCommand(env, []string{"deploy", "a-much-longer-candidate", "x"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "deploy", cmd)

	_, ok, err = codec.MatchCommand(env, []string{"status", "rollback"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = codec.MatchCommand(env, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// An oversized candidate fails the whole call even when an earlier
	// candidate matches.
	_, _, err = codec.MatchCommand(env, []string{"deploy", strings.Repeat("z", 33)})
	assert.True(t, errors.Is(err, ErrCommandTooLong))
}

func TestMatchCommandStripsTrailingPadding(t *testing.T) {
	codec := newTestCodec(t)

	// A command ending in '=' is indistinguishable from padding once
	// recovered, so it cannot match itself.
	env, err := codec.Encode("cmd=", "payload")
	require.NoError(t, err)

	_, ok, err := codec.MatchCommand(env, []string{"cmd="})
	require.NoError(t, err)
	assert.False(t, ok)

	// The stripped form is what comes back.
	cmd, ok, err := codec.MatchCommand(env, []string{"cmd"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cmd", cmd)

	// Inner '=' survives recovery.
	env, err = codec.Encode("a=b", "payload")
	require.NoError(t, err)
	cmd, ok, err = codec.MatchCommand(env, []string{"a=b"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a=b", cmd)
}

func TestWrongKeys(t *testing.T) {
	codec := newTestCodec(t)
	env, err := codec.Encode("hello", "world")
	require.NoError(t, err)

	wrongSigning, err := token.NewStatic("different-signing-key", "test-obfuscation-key")
	require.NoError(t, err)
	codecWrongSigning, err := New(wrongSigning, nil)
	require.NoError(t, err)

	// The command check does not involve the signing key.
	ok, err := codecWrongSigning.VerifyCommand(env, "hello")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = codecWrongSigning.DecodePayload(env)
	assert.True(t, errors.Is(err, ErrAuthenticationFailed))

	wrongObfuscation, err := token.NewStatic("test-signing-key", "different-obfuscation-key")
	require.NoError(t, err)
	codecWrongObfuscation, err := New(wrongObfuscation, nil)
	require.NoError(t, err)

	ok, err = codecWrongObfuscation.VerifyCommand(env, "hello")
	require.NoError(t, err)
	assert.False(t, ok)

	// The garbled payload no longer matches the signature.
	_, err = codecWrongObfuscation.DecodePayload(env)
	assert.True(t, errors.Is(err, ErrAuthenticationFailed))
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	provider, err := token.NewStatic("sk", "ok")
	require.NoError(t, err)
	codec, err := New(provider, NewOptions())
	require.NoError(t, err)
	require.NotNil(t, codec)
}

func TestCustomStrategyRoundTrip(t *testing.T) {
	provider, err := token.NewStatic("test-signing-key", "test-obfuscation-key")
	require.NoError(t, err)

	strategy, err := cipher.NewChaChaPoly([]byte("test-obfuscation-key"))
	require.NoError(t, err)

	options := NewOptions()
	options.Strategy = strategy
	codec, err := New(provider, options)
	require.NoError(t, err)

	env, err := codec.Encode("hello", "world")
	require.NoError(t, err)
	// AEAD ciphertext carries a 16-byte tag on top of the payload.
	assert.Len(t, env, limits.MinEnvelopeSize+len("world")+16)

	payload, err := codec.DecodePayload(env)
	require.NoError(t, err)
	assert.Equal(t, "world", payload)

	// The command path is strategy-independent.
	ok, err := codec.VerifyCommand(env, "hello")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStrategyMismatch(t *testing.T) {
	provider, err := token.NewStatic("test-signing-key", "test-obfuscation-key")
	require.NoError(t, err)

	aead, err := cipher.NewChaChaPoly([]byte("test-obfuscation-key"))
	require.NoError(t, err)
	options := NewOptions()
	options.Strategy = aead
	sender, err := New(provider, options)
	require.NoError(t, err)

	receiver, err := New(provider, nil) // default XOR strategy
	require.NoError(t, err)

	env, err := sender.Encode("hello", "world")
	require.NoError(t, err)

	_, err = receiver.DecodePayload(env)
	assert.True(t, errors.Is(err, ErrAuthenticationFailed),
		"strategy mismatch must surface as authentication failure, got %v", err)
}

func TestConcurrentCodecUse(t *testing.T) {
	codec := newTestCodec(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				env, err := codec.Encode("hello", "world")
				if !assert.NoError(t, err) {
					return
				}
				payload, err := codec.DecodePayload(env)
				if assert.NoError(t, err) {
					assert.Equal(t, "world", payload)
				}
			}
		}()
	}
	wg.Wait()
}
