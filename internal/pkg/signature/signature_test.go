package signature_test

import (
	"strings"
	"testing"

	"localoffice/internal/pkg/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"job_id":"ext-1","status":"delivered"}`)

	t.Run("accepts_correct_signature_over_exact_bytes", func(t *testing.T) {
		sig := signature.Digest(body, secret)
		assert.True(t, signature.Verify(body, secret, sig))
	})

	t.Run("accepts_uppercase_hex_signature", func(t *testing.T) {
		sig := strings.ToUpper(signature.Digest(body, secret))
		assert.True(t, signature.Verify(body, secret, sig))
	})

	t.Run("rejects_any_single_byte_mutation", func(t *testing.T) {
		sig := signature.Digest(body, secret)

		for i := range body {
			mutated := make([]byte, len(body))
			copy(mutated, body)
			mutated[i] ^= 0x01

			require.False(t, signature.Verify(mutated, secret, sig),
				"mutation at byte %d must fail verification", i)
		}
	})

	t.Run("rejects_wrong_secret", func(t *testing.T) {
		sig := signature.Digest(body, secret)
		assert.False(t, signature.Verify(body, "whsec_other", sig))
	})

	t.Run("rejects_malformed_hex", func(t *testing.T) {
		assert.False(t, signature.Verify(body, secret, "not-hex-at-all"))
	})

	t.Run("rejects_truncated_signature", func(t *testing.T) {
		sig := signature.Digest(body, secret)
		assert.False(t, signature.Verify(body, secret, sig[:16]))
	})

	t.Run("reserialized_body_does_not_verify", func(t *testing.T) {
		// Same JSON, different bytes: key order swapped.
		sig := signature.Digest(body, secret)
		reserialized := []byte(`{"status":"delivered","job_id":"ext-1"}`)
		assert.False(t, signature.Verify(reserialized, secret, sig))
	})
}
