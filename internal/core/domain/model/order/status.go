package order

import (
	"fmt"

	"localoffice/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a
// one-directional state machine; no backward transition is permitted.
//
// State transitions:
//
//	Pending ──> Locked ──> Batched ──> Fulfilled
//	   │           │
//	   └───────────┴──> Canceled
//
// Pending→Locked happens at cutoff or on explicit confirmation before
// cutoff. Locked→Batched happens only inside the batching job. Canceled is
// reachable from Pending and Locked only.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after submission, before cutoff.
	Pending

	// Locked means the ordering window has closed for this order (cutoff
	// reached or explicitly confirmed); the order awaits batching.
	Locked

	// Batched means the order was assigned to a delivery batch.
	Batched

	// Fulfilled means the batch was delivered. Final state.
	Fulfilled

	// Canceled means the order was withdrawn before batching. Final state.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Locked:    "Locked",
		Batched:   "Batched",
		Fulfilled: "Fulfilled",
		Canceled:  "Canceled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Locked:    "Locked",
		Batched:   "Batched",
		Fulfilled: "Fulfilled",
		Canceled:  "Canceled",
	}
}

// Validate checks that the Status is one of the defined lifecycle values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer; safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Lock transitions the status to Locked. Only Pending orders can be locked;
// locking an already Locked order is allowed as a no-op transition so the
// batching job stays idempotent.
func (s Status) Lock() (Status, error) {
	if s != Pending && s != Locked {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to lock", s))
	}
	return Locked, nil
}

// AssignBatch transitions the status to Batched. Valid only from Locked.
func (s Status) AssignBatch() (Status, error) {
	if s != Locked {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to assign to a batch", s))
	}
	return Batched, nil
}

// Fulfill transitions the status to Fulfilled. Valid only from Batched.
func (s Status) Fulfill() (Status, error) {
	if s != Batched {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to fulfill", s))
	}
	return Fulfilled, nil
}

// Cancel transitions the status to Canceled. Valid from Pending and Locked;
// batched orders can no longer be withdrawn individually.
func (s Status) Cancel() (Status, error) {
	if s != Pending && s != Locked {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return Canceled, nil
}

// ValidateCanHaveBatch enforces consistency between status and batch
// assignment: an order's batch reference is set if and only if its status is
// at or past Batched.
func (s Status) ValidateCanHaveBatch(hasBatch bool) error {
	atOrPastBatched := s == Batched || s == Fulfilled

	if hasBatch && !atOrPastBatched {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to have a batch", s))
	}

	if !hasBatch && atOrPastBatched {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to have no batch", s))
	}

	return nil
}
