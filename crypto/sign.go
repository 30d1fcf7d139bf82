package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SignPayload computes the envelope signature: lowercase-hex HMAC-SHA256
// over payload followed by nonce, under the signing key. The result is
// always 64 hex characters.
//
// The signature covers the payload and nonce only. The command field is
// protected solely by keystream obfuscation, not by the MAC.
func SignPayload(signingKey, payload, nonce []byte) string {
	mac := hmac.New(sha256.New, signingKey)
	mac.Write(payload)
	mac.Write(nonce)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature for payload and nonce and
// compares it to the presented one in constant time.
func VerifySignature(signingKey, payload, nonce []byte, signature string) bool {
	expected := SignPayload(signingKey, payload, nonce)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
