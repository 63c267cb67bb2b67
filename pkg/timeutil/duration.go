// Package timeutil renders and parses the small time vocabulary the booth's
// operator surfaces use: "3h ago" ages in listings and compact spans like
// "1w2d" for filtering them.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var spanPattern = regexp.MustCompile(`^(\d+)\s*([a-z]+)`)

func spanUnit(unit string) (time.Duration, bool) {
	switch unit {
	case "s", "sec", "second", "seconds":
		return time.Second, true
	case "m", "min", "minute", "minutes":
		return time.Minute, true
	case "h", "hr", "hour", "hours":
		return time.Hour, true
	case "d", "day", "days":
		return 24 * time.Hour, true
	case "w", "week", "weeks":
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

// ParseSpan parses a compact duration like "1w", "3d", or "1w2d6h", the
// shape operators type into --since.
func ParseSpan(input string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, fmt.Errorf("empty span")
	}

	var total time.Duration
	rest := s
	for len(rest) > 0 {
		m := spanPattern.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("invalid span segment %q", rest)
		}
		value, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid span value %q: %w", m[1], err)
		}
		unit, ok := spanUnit(m[2])
		if !ok {
			return 0, fmt.Errorf("unknown unit %q in span %q", m[2], input)
		}
		total += time.Duration(value) * unit
		rest = strings.TrimSpace(rest[len(m[0]):])
	}

	if total <= 0 {
		return 0, fmt.Errorf("span must be positive")
	}
	return total, nil
}

// FormatSpan renders d in the same compact vocabulary, coarsest unit first.
func FormatSpan(d time.Duration) string {
	units := []struct {
		label string
		value time.Duration
	}{
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	}

	var b strings.Builder
	rest := d
	for _, u := range units {
		if rest < u.value {
			continue
		}
		n := rest / u.value
		rest -= n * u.value
		fmt.Fprintf(&b, "%d%s", n, u.label)
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}

// Age renders how long ago at was, in the coarsest single token that fits.
// Used by the sessions listing, where "3h ago" reads better than a timestamp.
func Age(at, now time.Time) string {
	d := now.Sub(at)
	if d < time.Minute {
		return "just now"
	}
	units := []struct {
		label string
		value time.Duration
	}{
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
	}
	for _, u := range units {
		if d >= u.value {
			return fmt.Sprintf("%d%s ago", d/u.value, u.label)
		}
	}
	return "just now"
}
