// Package slot models one instance of a recurring ordering window.
package slot

import (
	"errors"
	"fmt"
	"time"

	"localoffice/internal/core/domain/model/kernel"
	"localoffice/internal/pkg/errs"
)

var (
	// ErrProgramSlotIsNotConstructed is returned when a ProgramSlot was not
	// created through NewProgramSlot or RestoreProgramSlot.
	ErrProgramSlotIsNotConstructed = errors.New(
		"ProgramSlot must be created via NewProgramSlot constructor",
	)
)

// ProgramSlot is one occurrence of a recurring ordering window: a provider
// serving a site at a service time, with an ordering window and a cutoff.
//
// Invariants:
//   - cutoff ≤ service time
//   - window start < window end
//
// A slot is immutable once orders exist against it; re-saving the owning
// program is handled outside this system.
type ProgramSlot struct {
	id             kernel.UUID
	providerID     kernel.UUID
	siteID         kernel.UUID
	serviceAt      time.Time
	windowStartsAt time.Time
	windowEndsAt   time.Time
	cutoffAt       time.Time

	isConstructed bool
}

// NewProgramSlot creates a validated ProgramSlot.
func NewProgramSlot(
	id, providerID, siteID kernel.UUID,
	serviceAt, windowStartsAt, windowEndsAt, cutoffAt time.Time,
) (*ProgramSlot, error) {
	s := &ProgramSlot{isConstructed: true}

	if err := errors.Join(
		s.setID(id),
		s.setProviderID(providerID),
		s.setSiteID(siteID),
		s.setTimes(serviceAt, windowStartsAt, windowEndsAt, cutoffAt),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreProgramSlot rehydrates a ProgramSlot from persistence.
func RestoreProgramSlot(
	id, providerID, siteID kernel.UUID,
	serviceAt, windowStartsAt, windowEndsAt, cutoffAt time.Time,
) (*ProgramSlot, error) {
	return NewProgramSlot(id, providerID, siteID, serviceAt, windowStartsAt, windowEndsAt, cutoffAt)
}

// Validate ensures the slot was built through its constructor.
func (s *ProgramSlot) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrProgramSlotIsNotConstructed
	}
	return nil
}

// ID returns the slot identifier.
func (s *ProgramSlot) ID() kernel.UUID {
	return s.id
}

// ProviderID returns the courier/caterer provider identifier.
func (s *ProgramSlot) ProviderID() kernel.UUID {
	return s.providerID
}

// SiteID returns the delivery site identifier.
func (s *ProgramSlot) SiteID() kernel.UUID {
	return s.siteID
}

// ServiceAt returns the service (meal) time.
func (s *ProgramSlot) ServiceAt() time.Time {
	return s.serviceAt
}

// WindowStartsAt returns the start of the ordering window.
func (s *ProgramSlot) WindowStartsAt() time.Time {
	return s.windowStartsAt
}

// WindowEndsAt returns the end of the ordering window.
func (s *ProgramSlot) WindowEndsAt() time.Time {
	return s.windowEndsAt
}

// CutoffAt returns the submission deadline.
func (s *ProgramSlot) CutoffAt() time.Time {
	return s.cutoffAt
}

// IsCutoffPassed reports whether the cutoff has been reached at now.
func (s *ProgramSlot) IsCutoffPassed(now time.Time) bool {
	return !now.Before(s.cutoffAt)
}

// AssertBeforeCutoff fails with a conflict when the cutoff has passed,
// which is the rejection every submission path surfaces to the caller.
func (s *ProgramSlot) AssertBeforeCutoff(now time.Time) error {
	if s.IsCutoffPassed(now) {
		return errs.NewConflictError("ordering window closed")
	}
	return nil
}

// HoursUntilCutoff returns the whole hours remaining until cutoff, floored
// at zero.
func (s *ProgramSlot) HoursUntilCutoff(now time.Time) int {
	diff := s.cutoffAt.Sub(now)
	if diff < 0 {
		return 0
	}
	return int(diff.Round(time.Hour) / time.Hour)
}

func (s *ProgramSlot) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *ProgramSlot) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.providerID = id
	return nil
}

func (s *ProgramSlot) setSiteID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.siteID = id
	return nil
}

func (s *ProgramSlot) setTimes(serviceAt, windowStartsAt, windowEndsAt, cutoffAt time.Time) error {
	if serviceAt.IsZero() || windowStartsAt.IsZero() || windowEndsAt.IsZero() || cutoffAt.IsZero() {
		return errs.NewValueIsRequiredError("slot timestamps")
	}

	if cutoffAt.After(serviceAt) {
		return errs.NewValueIsInvalidErrorWithCause("cutoffAt",
			fmt.Errorf("cutoff %s is after service time %s", cutoffAt, serviceAt))
	}

	if !windowStartsAt.Before(windowEndsAt) {
		return errs.NewValueIsInvalidErrorWithCause("windowStartsAt",
			fmt.Errorf("window start %s is not before window end %s", windowStartsAt, windowEndsAt))
	}

	s.serviceAt = serviceAt
	s.windowStartsAt = windowStartsAt
	s.windowEndsAt = windowEndsAt
	s.cutoffAt = cutoffAt
	return nil
}
