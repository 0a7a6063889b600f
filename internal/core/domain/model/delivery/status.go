package delivery

import (
	"fmt"
	"regexp"

	"localoffice/internal/pkg/errs"
)

// Status represents the canonical state of a delivery job. Courier networks
// report status in their own vocabulary; Classify maps raw strings into this
// canonical set.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Requested means the job was created with the courier network.
	Requested

	// Accepted means a courier acknowledged the job.
	Accepted

	// PickedUp means the courier collected the batch.
	PickedUp

	// Delivered means the batch reached the site. Final state.
	Delivered

	// Canceled means the job was withdrawn. Final state.
	Canceled

	// Failed means the courier network reported a failure. Final state.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Requested: "requested",
		Accepted:  "accepted",
		PickedUp:  "picked_up",
		Delivered: "delivered",
		Canceled:  "canceled",
		Failed:    "failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Requested: "requested",
		Accepted:  "accepted",
		PickedUp:  "picked_up",
		Delivered: "delivered",
		Canceled:  "canceled",
		Failed:    "failed",
	}
}

// Validate checks that the Status is one of the canonical values.
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
	return "unknown"
}

// StatusFromString maps a canonical wire name back to a Status.
func StatusFromString(value string) (Status, error) {
	for s, str := range getValidStatusStrings() {
		if str == value {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", value))
}

// IsTerminal reports whether the status admits no further promotion except
// through an explicit terminal update.
func (s Status) IsTerminal() bool {
	return s == Canceled || s == Failed
}

func statusPriority(s Status) int {
	switch s {
	case Accepted:
		return 1
	case PickedUp:
		return 2
	case Delivered:
		return 3
	case Canceled, Failed:
		return 4
	default:
		return 0
	}
}

// ShouldPromote decides whether an incoming status may replace the stored
// one. The first terminal state wins: once the record is canceled or
// failed, nothing replaces it, not even the other terminal state. A
// terminal status beats any non-terminal one, so delivered→canceled still
// promotes. Otherwise a status of equal or higher priority wins, so an
// out-of-order "accepted" arriving after "delivered" never rolls the
// record back.
func ShouldPromote(current, next Status) bool {
	if current == next {
		return false
	}
	if current.IsTerminal() {
		return false
	}
	if next.IsTerminal() {
		return true
	}
	return statusPriority(next) >= statusPriority(current)
}

// statusRules map courier status vocabulary onto canonical states. Order
// matters: the first matching rule wins, so delivery-like words beat
// pickup-like words and so on down the list.
var statusRules = []struct {
	pattern *regexp.Regexp
	status  Status
}{
	{regexp.MustCompile(`(?i)(deliver|complete|finish)`), Delivered},
	{regexp.MustCompile(`(?i)(pick|route|out_for_delivery|depart|en_route)`), PickedUp},
	{regexp.MustCompile(`(?i)(accept|assign|dispatch|acknow)`), Accepted},
	{regexp.MustCompile(`(?i)(cancel|void)`), Canceled},
	{regexp.MustCompile(`(?i)(fail|error|return)`), Failed},
	{regexp.MustCompile(`(?i)(request|create|pending|open)`), Requested},
}

// Classify maps a raw courier status string onto a canonical Status. The
// second return is false when the string matches no rule.
func Classify(raw string) (Status, bool) {
	if raw == "" {
		return Unknown, false
	}
	for _, rule := range statusRules {
		if rule.pattern.MatchString(raw) {
			return rule.status, true
		}
	}
	return Unknown, false
}
