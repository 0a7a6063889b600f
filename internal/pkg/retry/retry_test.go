package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"localoffice/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient failure")

func alwaysRetry(error) bool { return true }

func TestExecute_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	result, err := retry.Execute(t.Context(), retry.Policy{
		Retries:     2,
		BaseDelay:   time.Millisecond,
		ShouldRetry: alwaysRetry,
	}, func() (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestExecute_NFailuresThenSuccess(t *testing.T) {
	const failures = 3
	calls := 0

	result, err := retry.Execute(t.Context(), retry.Policy{
		Retries:     failures,
		BaseDelay:   time.Millisecond,
		ShouldRetry: alwaysRetry,
	}, func() (int, error) {
		calls++
		if calls <= failures {
			return 0, errTransient
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, failures+1, calls)
}

func TestExecute_ExhaustsRetries(t *testing.T) {
	calls := 0

	_, err := retry.Execute(t.Context(), retry.Policy{
		Retries:     2,
		BaseDelay:   time.Millisecond,
		ShouldRetry: alwaysRetry,
	}, func() (int, error) {
		calls++
		return 0, errTransient
	})

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestExecute_NonRetryableFailsImmediately(t *testing.T) {
	permanent := errors.New("permanent failure")
	calls := 0

	_, err := retry.Execute(t.Context(), retry.Policy{
		Retries:   5,
		BaseDelay: time.Millisecond,
		ShouldRetry: func(err error) bool {
			return !errors.Is(err, permanent)
		},
	}, func() (int, error) {
		calls++
		return 0, permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestExecute_ZeroPolicyIsSingleAttempt(t *testing.T) {
	calls := 0

	_, err := retry.Execute(t.Context(), retry.Policy{}, func() (int, error) {
		calls++
		return 0, errTransient
	})

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestExecute_OnRetryReceivesAttemptNumbers(t *testing.T) {
	var attempts []int

	_, err := retry.Execute(t.Context(), retry.Policy{
		Retries:     2,
		BaseDelay:   time.Millisecond,
		ShouldRetry: alwaysRetry,
		OnRetry: func(_ error, attempt int) {
			attempts = append(attempts, attempt)
		},
	}, func() (int, error) {
		return 0, errTransient
	})

	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestExecute_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := retry.Execute(ctx, retry.Policy{
		Retries:     5,
		BaseDelay:   time.Minute,
		ShouldRetry: alwaysRetry,
	}, func() (int, error) {
		calls++
		cancel()
		return 0, errTransient
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
