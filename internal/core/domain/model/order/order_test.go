package order_test

import (
	"testing"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/core/domain/model/order"
	"localoffice/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTotals(t *testing.T) order.Totals {
	t.Helper()
	totals, err := order.NewTotals(
		decimal.RequireFromString("16.00"),
		decimal.RequireFromString("2.00"),
		decimal.Zero, decimal.Zero,
		decimal.RequireFromString("0.50"),
	)
	require.NoError(t, err)
	return totals
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), testTotals(t), "key-1")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("valid_order_starts_pending", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Batch())
		assert.Equal(t, "key-1", o.IdempotencyKey())
		assert.True(t, o.Totals().Total.Equal(decimal.RequireFromString("18.50")))
	})

	t.Run("missing_idempotency_key_is_defaulted", func(t *testing.T) {
		id := kernel.NewUUID()
		o, err := order.NewOrder(id, kernel.NewUUID(), testTotals(t), "")

		require.NoError(t, err)
		assert.Equal(t, "order_"+id.String(), o.IdempotencyKey())
	})

	t.Run("zero_value_order_fails_validation", func(t *testing.T) {
		var o order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("pending_lock_batch_fulfill", func(t *testing.T) {
		o := newTestOrder(t)
		batchID := kernel.NewUUID()

		require.NoError(t, o.Lock())
		assert.Equal(t, order.Locked, o.Status())

		require.NoError(t, o.AssignToBatch(batchID))
		assert.Equal(t, order.Batched, o.Status())
		require.NotNil(t, o.Batch())
		assert.True(t, o.Batch().IsEqual(batchID))

		require.NoError(t, o.Fulfill())
		assert.Equal(t, order.Fulfilled, o.Status())
	})

	t.Run("locking_twice_is_a_noop", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Lock())
		require.NoError(t, o.Lock())
		assert.Equal(t, order.Locked, o.Status())
	})

	t.Run("cannot_batch_pending_order", func(t *testing.T) {
		o := newTestOrder(t)

		require.Error(t, o.AssignToBatch(kernel.NewUUID()))
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Batch())
	})

	t.Run("cannot_batch_twice", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Lock())
		require.NoError(t, o.AssignToBatch(kernel.NewUUID()))

		err := o.AssignToBatch(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("cannot_fulfill_unbatched_order", func(t *testing.T) {
		o := newTestOrder(t)

		require.Error(t, o.Fulfill())
	})

	t.Run("cancel_from_pending_and_locked_only", func(t *testing.T) {
		pending := newTestOrder(t)
		require.NoError(t, pending.Cancel())
		assert.Equal(t, order.Canceled, pending.Status())

		locked := newTestOrder(t)
		require.NoError(t, locked.Lock())
		require.NoError(t, locked.Cancel())

		batched := newTestOrder(t)
		require.NoError(t, batched.Lock())
		require.NoError(t, batched.AssignToBatch(kernel.NewUUID()))
		require.Error(t, batched.Cancel())
	})

	t.Run("no_backward_transition", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Lock())
		require.NoError(t, o.AssignToBatch(kernel.NewUUID()))
		require.NoError(t, o.Fulfill())

		require.Error(t, o.Lock())
		require.Error(t, o.Cancel())
	})
}

func TestOrder_OverrideTip(t *testing.T) {
	t.Run("recomputes_total_while_pending", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.OverrideTip(decimal.RequireFromString("5.00")))

		assert.True(t, o.Totals().Tip.Equal(decimal.RequireFromString("5.00")))
		assert.True(t, o.Totals().Total.Equal(decimal.RequireFromString("21.50")))
	})

	t.Run("rejected_after_lock", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Lock())

		err := o.OverrideTip(decimal.RequireFromString("5.00"))

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("batched_order_requires_batch_reference", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			order.Batched, testTotals(t), "key-1", nil,
		)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("pending_order_must_not_have_batch", func(t *testing.T) {
		batchID := kernel.NewUUID()
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			order.Pending, testTotals(t), "key-1", &batchID,
		)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("restores_consistent_state", func(t *testing.T) {
		batchID := kernel.NewUUID()
		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(),
			order.Batched, testTotals(t), "key-1", &batchID,
		)

		require.NoError(t, err)
		assert.Equal(t, order.Batched, o.Status())
		assert.True(t, o.Batch().IsEqual(batchID))
	})
}

func TestSumLineItems(t *testing.T) {
	sum := order.SumLineItems([]order.LineItem{
		{Price: decimal.RequireFromString("16.00"), Quantity: 1},
		{Price: decimal.RequireFromString("3.25"), Quantity: 2},
	})

	assert.True(t, sum.Equal(decimal.RequireFromString("22.50")))
}

func TestNewTotals_RejectsNegativeComponents(t *testing.T) {
	_, err := order.NewTotals(
		decimal.RequireFromString("-1"),
		decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
	)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
