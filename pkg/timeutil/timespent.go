// Package timeutil provides date and duration parsing helpers shared by the
// Jira worklog tools and response models.
package timeutil

import (
	"regexp"
	"strconv"
	"strings"
)

// Seconds per unit in Jira's time-tracking notation.
var timeUnits = map[string]int{
	"w": 7 * 24 * 60 * 60,
	"d": 24 * 60 * 60,
	"h": 60 * 60,
	"m": 60,
}

var timeComponent = regexp.MustCompile(`(\d+)([wdhm])`)

// FormatDuration renders a duration in minutes as "1d 1h 0m". Days are
// calendar days (24h). Minutes are always shown; hours appear whenever
// days do. Zero or negative input yields "0m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}

	days := minutes / (24 * 60)
	remaining := minutes % (24 * 60)
	hours := remaining / 60
	mins := remaining % 60

	var parts []string
	if days > 0 {
		parts = append(parts, strconv.Itoa(days)+"d")
	}
	if hours > 0 || days > 0 {
		parts = append(parts, strconv.Itoa(hours)+"h")
	}
	parts = append(parts, strconv.Itoa(mins)+"m")

	return strings.Join(parts, " ")
}

// ParseTimeSpent converts a Jira time-spent string (e.g. "1h 30m", "2d",
// "90s") into seconds.
//
// Accepted forms, in order of precedence:
//   - a bare number with an "s" suffix, taken as seconds directly
//   - any combination of Nw, Nd, Nh, Nm components
//   - a plain number, taken as seconds
//
// Unparseable input falls back to 60 seconds so that a malformed worklog
// entry still records a minimal amount of time rather than failing.
func ParseTimeSpent(timeSpent string) int {
	trimmed := strings.TrimSpace(timeSpent)

	if strings.HasSuffix(trimmed, "s") {
		if secs, err := strconv.Atoi(strings.TrimSuffix(trimmed, "s")); err == nil {
			return secs
		}
	}

	total := 0
	for _, match := range timeComponent.FindAllStringSubmatch(trimmed, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		total += value * timeUnits[match[2]]
	}
	if total > 0 {
		return total
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return int(f)
	}

	return 60
}
