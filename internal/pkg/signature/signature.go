// Package signature implements HMAC-SHA256 webhook authentication. The
// digest is computed over the exact raw request body and compared in
// constant time against the hex signature the provider sent.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex-encoded HMAC-SHA256 of payload under secret.
func Digest(payload []byte, secret string) string {
	return hex.EncodeToString(digest(payload, secret))
}

// Verify reports whether received is a valid hex HMAC-SHA256 signature of
// payload under secret. The comparison is constant-time; a malformed hex
// signature simply fails verification.
func Verify(payload []byte, secret, received string) bool {
	got, err := hex.DecodeString(received)
	if err != nil {
		return false
	}
	return hmac.Equal(digest(payload, secret), got)
}

func digest(payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}
