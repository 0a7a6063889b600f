package courier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localoffice/internal/adapters/out/courier"
)

func TestStringField_WalksFallbackPaths(t *testing.T) {
	payload := map[string]any{
		"price": map[string]any{"currency": "EUR"},
		"id":    "ext-1",
	}

	assert.Equal(t, "EUR", courier.StringField(payload, "price.currency", "currency"))
	assert.Equal(t, "ext-1", courier.StringField(payload, "job_id", "id"))
	assert.Equal(t, "", courier.StringField(payload, "missing", "also.missing"))
}

func TestStringField_CoercesNumbers(t *testing.T) {
	payload := map[string]any{"id": float64(12345)}

	assert.Equal(t, "12345", courier.StringField(payload, "id"))
}

func TestDecimalField_PrefersFirstPresentPath(t *testing.T) {
	payload := map[string]any{
		"price": map[string]any{"amount": 12.5},
		"fee":   99.0,
	}

	fee := courier.DecimalField(payload, "price.amount", "fee")
	assert.Equal(t, "12.5", fee.String())
}

func TestTimestamps_DropsNullsAndCoerces(t *testing.T) {
	out := courier.Timestamps(map[string]any{
		"deliveredAt": "2026-08-30T12:00:00Z",
		"canceledAt":  nil,
	})

	assert.Equal(t, map[string]string{"deliveredAt": "2026-08-30T12:00:00Z"}, out)
	assert.Empty(t, courier.Timestamps(nil))
}

func TestProof_DefaultsTypeToPhoto(t *testing.T) {
	proof := courier.Proof(map[string]any{"url": "https://cdn.example.com/pod.jpg"})

	require.NotNil(t, proof)
	assert.Equal(t, "photo", proof.Type)

	assert.Nil(t, courier.Proof(nil))
	assert.Nil(t, courier.Proof(map[string]any{"type": "signature"}), "proof without url is dropped")
}
