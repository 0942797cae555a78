package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamps outside this range would not round-trip through Jira's own
// date handling; legacy Jira Server instances occasionally emit them.
const (
	minEpochMillis = -62135596800000  // year 1
	maxEpochMillis = 253402300799999 // year 9999
)

// Textual layouts seen in Atlassian REST payloads, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a date value from an Atlassian API payload.
//
// The input may be an epoch timestamp in milliseconds (all digits, optional
// leading minus) or a textual timestamp in one of the layouts Atlassian
// emits. Empty input yields the zero time with ok=false. Epoch values
// outside the representable year range also yield ok=false rather than an
// error, matching how out-of-range legacy timestamps are tolerated.
func ParseDate(value string) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false, nil
	}

	if isAllDigits(trimmed) {
		millis, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid epoch timestamp %q: %w", value, err)
		}
		if millis < minEpochMillis || millis > maxEpochMillis {
			return time.Time{}, false, nil
		}
		return time.UnixMilli(millis).UTC(), true, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("invalid date format: %q", value)
}

func isAllDigits(s string) bool {
	rest := strings.TrimPrefix(s, "-")
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
