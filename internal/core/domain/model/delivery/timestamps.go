package delivery

import (
	"regexp"
	"time"
)

// TimestampField names a per-phase timestamp on a delivery job.
type TimestampField string

const (
	FieldAcceptedAt  TimestampField = "acceptedAt"
	FieldPickedUpAt  TimestampField = "pickedUpAt"
	FieldDeliveredAt TimestampField = "deliveredAt"
	FieldCanceledAt  TimestampField = "canceledAt"
	FieldFailedAt    TimestampField = "failedAt"
)

// timestampRules map courier timestamp key vocabulary onto canonical fields.
// First match wins.
var timestampRules = []struct {
	pattern *regexp.Regexp
	field   TimestampField
}{
	{regexp.MustCompile(`(?i)(accept|assign|dispatch|acknow)`), FieldAcceptedAt},
	{regexp.MustCompile(`(?i)(pick|route|depart|out_for_delivery|en_route)`), FieldPickedUpAt},
	{regexp.MustCompile(`(?i)(deliver|complete|finish|dropoff)`), FieldDeliveredAt},
	{regexp.MustCompile(`(?i)(cancel|void)`), FieldCanceledAt},
	{regexp.MustCompile(`(?i)(fail|error|return)`), FieldFailedAt},
}

// BuildTimestampUpdates maps raw provider timestamp keys onto canonical
// fields, keeping only values that parse as RFC 3339 times. Keys matching no
// rule and unparseable values are dropped.
func BuildTimestampUpdates(timestamps map[string]string) map[TimestampField]time.Time {
	if len(timestamps) == 0 {
		return nil
	}

	updates := make(map[TimestampField]time.Time)

	for key, value := range timestamps {
		if value == "" {
			continue
		}

		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			continue
		}

		for _, rule := range timestampRules {
			if rule.pattern.MatchString(key) {
				updates[rule.field] = parsed
				break
			}
		}
	}

	return updates
}
