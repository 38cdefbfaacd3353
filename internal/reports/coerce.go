package reports

import (
	"strconv"
	"strings"
	"time"
)

// sentinelDOB is the bureau's zero-date placeholder for an unknown date of
// birth. It must be excluded before date coercion, not parsed as a literal
// date.
const sentinelDOB = "00010201"

// toInt coerces a raw tree leaf to an integer, defaulting to 0 for empty or
// malformed input. Used for the counter and monetary fields.
func toInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

// toIntPtr coerces a raw tree leaf to an optional integer, nil when absent
// or malformed. Used for fields where 0 and "not present" must differ.
func toIntPtr(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &v
}

// toDecimal coerces a raw tree leaf to a fractional value, defaulting to 0.
func toDecimal(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// toDate coerces a raw tree leaf to a calendar date. Accepted shapes are the
// bureau's 8-character YYYYMMDD token and a 10-character ISO token; anything
// else, including invalid calendar dates, yields nil rather than an error.
func toDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	switch len(trimmed) {
	case 8:
		t, err := time.Parse("20060102", trimmed)
		if err != nil {
			return nil
		}
		return &t
	case 10:
		t, err := time.Parse("2006-01-02", trimmed)
		if err != nil {
			return nil
		}
		return &t
	default:
		return nil
	}
}
