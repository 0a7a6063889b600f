package courier

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"localoffice/internal/core/domain/model/delivery"
)

// Provider response shapes drift between API versions, so field extraction
// walks a list of dotted fallback paths and takes the first present value.

// StringField returns the first non-empty string at any of the paths.
func StringField(payload map[string]any, paths ...string) string {
	for _, path := range paths {
		if value, ok := lookup(payload, path); ok {
			if s := coerceString(value); s != "" {
				return s
			}
		}
	}
	return ""
}

// DecimalField returns the first numeric value at any of the paths, or zero.
func DecimalField(payload map[string]any, paths ...string) decimal.Decimal {
	for _, path := range paths {
		value, ok := lookup(payload, path)
		if !ok {
			continue
		}

		switch v := value.(type) {
		case float64:
			return decimal.NewFromFloat(v)
		case string:
			if parsed, err := decimal.NewFromString(v); err == nil {
				return parsed
			}
		}
	}
	return decimal.Zero
}

// IntField returns the first numeric value at any of the paths truncated to
// an int, or zero.
func IntField(payload map[string]any, paths ...string) int {
	for _, path := range paths {
		value, ok := lookup(payload, path)
		if !ok {
			continue
		}

		switch v := value.(type) {
		case float64:
			return int(v)
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// MapField returns the first object value at any of the paths.
func MapField(payload map[string]any, paths ...string) map[string]any {
	for _, path := range paths {
		if value, ok := lookup(payload, path); ok {
			if m, isMap := value.(map[string]any); isMap {
				return m
			}
		}
	}
	return nil
}

// Timestamps flattens a provider timeline object into string values, the
// shape the reconciler's timestamp rules consume.
func Timestamps(input map[string]any) map[string]string {
	if input == nil {
		return map[string]string{}
	}

	out := make(map[string]string, len(input))
	for key, value := range input {
		if value == nil {
			continue
		}
		out[key] = coerceString(value)
	}
	return out
}

// Proof extracts a proof attachment from a provider payload object. The
// attachment type defaults to "photo" when absent.
func Proof(input map[string]any) *delivery.ProofAttachment {
	if input == nil {
		return nil
	}

	url := coerceString(input["url"])
	if url == "" {
		return nil
	}

	proofType := coerceString(input["type"])
	if proofType == "" {
		proofType = "photo"
	}

	return &delivery.ProofAttachment{URL: url, Type: proofType}
}

func lookup(payload map[string]any, path string) (any, bool) {
	current := any(payload)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i != len(path) && path[i] != '.' {
			continue
		}

		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[path[start:i]]
		if !ok {
			return nil, false
		}
		start = i + 1
	}

	return current, true
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
