package idempotency_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"localoffice/internal/pkg/idempotency"
)

func Test_NewKey(t *testing.T) {
	pattern := regexp.MustCompile(`^batch-lock_[A-Z0-9]{24}$`)

	t.Run("format", func(t *testing.T) {
		key := idempotency.NewKey("batch-lock")
		assert.Regexp(t, pattern, key)
	})

	t.Run("default_prefix", func(t *testing.T) {
		assert.Regexp(t, `^local-office_[A-Z0-9]{24}$`, idempotency.NewKey(""))
	})

	t.Run("keys_are_unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			key := idempotency.NewKey("batch-lock")
			_, dup := seen[key]
			assert.False(t, dup)
			seen[key] = struct{}{}
		}
	})
}
