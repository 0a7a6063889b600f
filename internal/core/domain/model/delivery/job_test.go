package delivery_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localoffice/internal/core/domain/model/delivery"
	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"
)

func newJob(t *testing.T) *delivery.Job {
	t.Helper()
	j, err := delivery.NewJob(
		kernel.NewUUID(), kernel.NewUUID(),
		"dispatch", "ext-1", "https://track.example.com/ext-1",
	)
	require.NoError(t, err)
	return j
}

func Test_NewJob(t *testing.T) {
	t.Run("valid_job_starts_requested", func(t *testing.T) {
		j := newJob(t)
		assert.NoError(t, j.Validate())
		assert.Equal(t, delivery.Requested, j.Status())
		assert.Equal(t, "dispatch", j.Adapter())
		assert.Equal(t, "ext-1", j.ExternalJobID())
	})

	t.Run("empty_external_id_is_rejected", func(t *testing.T) {
		_, err := delivery.NewJob(kernel.NewUUID(), kernel.NewUUID(), "dispatch", "", "")
		assert.ErrorIs(t, err, errs.ErrMissingExternalID)
	})

	t.Run("empty_adapter_is_rejected", func(t *testing.T) {
		_, err := delivery.NewJob(kernel.NewUUID(), kernel.NewUUID(), "", "ext-1", "")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("not_constructed_job_is_invalid", func(t *testing.T) {
		var j delivery.Job
		assert.ErrorIs(t, j.Validate(), delivery.ErrJobIsNotConstructed)
	})
}

func Test_Job_ApplyUpdate(t *testing.T) {
	update := func(status string) delivery.Update {
		return delivery.Update{
			Provider:      "dispatch",
			ExternalJobID: "ext-1",
			Status:        status,
			RawPayload:    json.RawMessage(`{"status":"` + status + `"}`),
			ReceivedAt:    time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		}
	}

	t.Run("promotes_forward", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.ApplyUpdate(update("courier_accepted")))
		assert.Equal(t, delivery.Accepted, j.Status())
		require.NoError(t, j.ApplyUpdate(update("delivered")))
		assert.Equal(t, delivery.Delivered, j.Status())
	})

	t.Run("late_lower_priority_update_does_not_roll_back", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.ApplyUpdate(update("delivered")))
		require.NoError(t, j.ApplyUpdate(update("accepted")))
		assert.Equal(t, delivery.Delivered, j.Status())
	})

	t.Run("first_terminal_status_sticks", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.ApplyUpdate(update("canceled")))
		require.NoError(t, j.ApplyUpdate(update("failed")))
		assert.Equal(t, delivery.Canceled, j.Status())
	})

	t.Run("unclassifiable_status_keeps_current", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.ApplyUpdate(update("weather_delay")))
		assert.Equal(t, delivery.Requested, j.Status())
	})

	t.Run("metadata_is_always_refreshed", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.ApplyUpdate(update("delivered")))
		require.NoError(t, j.ApplyUpdate(update("accepted")))

		// Status stayed delivered but the audit blob tracks the latest payload.
		assert.Equal(t, "accepted", j.Metadata()["status"])
		assert.Equal(t, "dispatch", j.Metadata()["provider"])
	})

	t.Run("timestamps_are_merged", func(t *testing.T) {
		j := newJob(t)
		u := update("picked_up")
		u.Timestamps = map[string]string{
			"picked_up_at":    "2026-03-10T11:30:00Z",
			"accepted_at":     "2026-03-10T11:00:00Z",
			"estimated_at":    "not-a-time",
			"irrelevant_key":  "2026-03-10T11:45:00Z",
			"dropoff_eta_raw": "",
		}
		require.NoError(t, j.ApplyUpdate(u))

		require.NotNil(t, j.PickedUpAt())
		assert.Equal(t, time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC), j.PickedUpAt().UTC())
		require.NotNil(t, j.AcceptedAt())
		assert.Nil(t, j.DeliveredAt())
	})

	t.Run("tracking_url_is_overwritten_when_present", func(t *testing.T) {
		j := newJob(t)
		u := update("accepted")
		u.TrackingURL = "https://track.example.com/new"
		require.NoError(t, j.ApplyUpdate(u))
		assert.Equal(t, "https://track.example.com/new", j.TrackingURL())

		require.NoError(t, j.ApplyUpdate(update("picked_up")))
		assert.Equal(t, "https://track.example.com/new", j.TrackingURL())
	})

	t.Run("proofs_are_deduplicated_by_url", func(t *testing.T) {
		j := newJob(t)

		u := update("delivered")
		u.Proof = &delivery.ProofAttachment{URL: "https://proofs.example.com/1.jpg", Type: "photo"}
		require.NoError(t, j.ApplyUpdate(u))
		require.NoError(t, j.ApplyUpdate(u))
		require.Len(t, j.Proofs(), 1)
		assert.Equal(t, "photo", j.Proofs()[0].Type)

		u.Proof = &delivery.ProofAttachment{URL: "https://proofs.example.com/2.jpg"}
		require.NoError(t, j.ApplyUpdate(u))
		require.Len(t, j.Proofs(), 2)
		assert.Equal(t, "unknown", j.Proofs()[1].Type)
	})

	t.Run("update_without_external_id_is_rejected", func(t *testing.T) {
		j := newJob(t)
		err := j.ApplyUpdate(delivery.Update{Provider: "dispatch"})
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func Test_Job_Cancel(t *testing.T) {
	at := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	t.Run("cancel_sets_status_and_timestamp", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.Cancel(at))
		assert.Equal(t, delivery.Canceled, j.Status())
		require.NotNil(t, j.CanceledAt())
		assert.Equal(t, at, *j.CanceledAt())
	})

	t.Run("cancel_is_idempotent", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.Cancel(at))
		require.NoError(t, j.Cancel(at.Add(time.Hour)))
		assert.Equal(t, at, *j.CanceledAt())
	})

	t.Run("cannot_cancel_failed_job", func(t *testing.T) {
		j := newJob(t)
		require.NoError(t, j.ApplyUpdate(delivery.Update{
			Provider: "dispatch", ExternalJobID: "ext-1", Status: "failed",
		}))
		assert.ErrorIs(t, j.Cancel(at), errs.ErrConflict)
	})
}

func Test_Job_Redispatch(t *testing.T) {
	j := newJob(t)
	require.NoError(t, j.ApplyUpdate(delivery.Update{
		Provider: "dispatch", ExternalJobID: "ext-1", Status: "delivered",
		Timestamps: map[string]string{"delivered_at": "2026-03-10T12:30:00Z"},
	}))
	require.Equal(t, delivery.Delivered, j.Status())

	require.NoError(t, j.Redispatch("uber_direct", "uber-77", ""))
	assert.Equal(t, delivery.Requested, j.Status())
	assert.Equal(t, "uber_direct", j.Adapter())
	assert.Equal(t, "uber-77", j.ExternalJobID())
	assert.Nil(t, j.DeliveredAt())

	assert.ErrorIs(t, j.Redispatch("uber_direct", "", ""), errs.ErrMissingExternalID)
}
