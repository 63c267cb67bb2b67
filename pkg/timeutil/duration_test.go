package timeutil

import (
	"testing"
	"time"
)

func TestParseSpan(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1w", 7 * 24 * time.Hour},
		{"3d", 3 * 24 * time.Hour},
		{"2h", 2 * time.Hour},
		{"45m", 45 * time.Minute},
		{"1w2d6h30m", (7*24+2*24+6)*time.Hour + 30*time.Minute},
		{" 2 Days ", 2 * 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseSpan(tc.in)
		if err != nil {
			t.Errorf("ParseSpan(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSpan(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseSpanRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "noop", "3", "d3", "4fortnights", "0s"} {
		if _, err := ParseSpan(in); err == nil {
			t.Errorf("ParseSpan(%q) should fail", in)
		}
	}
}

func TestFormatSpan(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{7 * 24 * time.Hour, "1w"},
		{(7*24+2*24+6)*time.Hour + 30*time.Minute, "1w2d6h30m"},
		{90 * time.Second, "1m30s"},
		{0, "0s"},
	}
	for _, tc := range cases {
		if got := FormatSpan(tc.in); got != tc.want {
			t.Errorf("FormatSpan(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseSpanRoundTrips(t *testing.T) {
	span, err := ParseSpan("1w2d6h")
	if err != nil {
		t.Fatalf("ParseSpan: %v", err)
	}
	if got := FormatSpan(span); got != "1w2d6h" {
		t.Fatalf("round trip = %q, want 1w2d6h", got)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-5 * time.Second), "just now"},
		{now.Add(-90 * time.Second), "1m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-26 * time.Hour), "1d ago"},
		{now.Add(-15 * 24 * time.Hour), "2w ago"},
	}
	for _, tc := range cases {
		if got := Age(tc.at, now); got != tc.want {
			t.Errorf("Age(%v) = %q, want %q", now.Sub(tc.at), got, tc.want)
		}
	}
}
