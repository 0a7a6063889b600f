package batch

import (
	"fmt"

	"localoffice/internal/pkg/errs"
)

// Status represents the lifecycle state of a batch.
//
// State transitions:
//
//	Pending ──> Locked ──> Sent ──> Delivered
//	   │           │         │
//	   └───────────┴─────────┴──> Canceled
//
// Pending→Locked happens inside the batching job once the slot's orders are
// locked. Locked→Sent happens when the batch is handed to a courier network.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of a freshly created batch.
	Pending

	// Locked means the batch's orders have been locked and assigned.
	Locked

	// Sent means the batch was dispatched to a courier network.
	Sent

	// Delivered means the courier confirmed delivery. Final state.
	Delivered

	// Canceled means the batch was withdrawn. Final state.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Locked:    "Locked",
		Sent:      "Sent",
		Delivered: "Delivered",
		Canceled:  "Canceled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Locked:    "Locked",
		Sent:      "Sent",
		Delivered: "Delivered",
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

// Lock transitions the status to Locked. Locking an already Locked batch is
// a no-op transition so the batching job stays idempotent across reruns.
func (s Status) Lock() (Status, error) {
	if s != Pending && s != Locked {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to lock", s))
	}
	return Locked, nil
}

// Send transitions the status to Sent. Valid only from Locked.
func (s Status) Send() (Status, error) {
	if s != Locked {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to send", s))
	}
	return Sent, nil
}

// Deliver transitions the status to Delivered. Valid only from Sent.
func (s Status) Deliver() (Status, error) {
	if s != Sent {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s))
	}
	return Delivered, nil
}

// Cancel transitions the status to Canceled. Delivered batches cannot be
// canceled.
func (s Status) Cancel() (Status, error) {
	if s == Delivered || s == Canceled {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return Canceled, nil
}
