// Package idempotency generates prefixed idempotency keys for deduplicated
// queue jobs and submissions.
package idempotency

import (
	"crypto/rand"
	"math/big"
)

const (
	alphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keyLength = 24
)

// DefaultPrefix is used when the caller does not supply one.
const DefaultPrefix = "local-office"

// NewKey returns "<prefix>_<24 random chars>" drawn from an uppercase
// alphanumeric alphabet.
func NewKey(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	buf := make([]byte, keyLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand on a healthy system does not fail; treat it as fatal.
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}

	return prefix + "_" + string(buf)
}
