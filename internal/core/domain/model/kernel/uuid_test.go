package kernel_test

import (
	"testing"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id := kernel.NewUUID()

	require.NoError(t, id.Validate())
	assert.NotEmpty(t, id.String())
}

func TestUUIDFromString(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUUID_Validate_ZeroValue(t *testing.T) {
	var id kernel.UUID

	require.Error(t, id.Validate())
}

func TestUUID_IsEqual(t *testing.T) {
	a := kernel.NewUUID()
	b := kernel.NewUUID()

	roundTripped, err := kernel.UUIDFromString(a.String())
	require.NoError(t, err)

	assert.True(t, a.IsEqual(roundTripped))
	assert.False(t, a.IsEqual(b))
}
