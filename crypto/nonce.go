package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/envelope/limits"
)

// randomSuffixModulus bounds the random nonce suffix to 6 decimal digits.
const randomSuffixModulus = 1000000

// GenerateNonce creates a fresh per-message nonce: a 13-digit zero-padded
// Unix millisecond timestamp followed by a 6-digit zero-padded random
// value, 19 ASCII digits in total. Time comes from the package-level
// TimeProvider; the random suffix comes from crypto/rand.
func GenerateNonce() (string, error) {
	return GenerateNonceWithTime(GetDefaultTimeProvider())
}

// GenerateNonceWithTime creates a nonce using the supplied time provider.
func GenerateNonceWithTime(tp TimeProvider) (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce suffix: %w", err)
	}
	suffix := binary.BigEndian.Uint64(buf[:]) % randomSuffixModulus

	nonce := fmt.Sprintf("%013d%06d", tp.Now().UnixMilli(), suffix)
	if len(nonce) != limits.NonceSize {
		// A clock far outside the 13-digit epoch range is the only way here.
		return "", fmt.Errorf("generated nonce has length %d, want %d", len(nonce), limits.NonceSize)
	}
	return nonce, nil
}
