package timeline

import "time"

// Timeline is a wall-clock progress value in [0,1]. It advances monotonically
// from a start instant over a fixed duration, is queried (never rewound), and
// may be capped below 1.0 so it only completes when explicitly forced — the
// shape used for upload progress, where the bar must not reach the end before
// the real work does.
type Timeline struct {
	start    time.Time
	duration time.Duration
	limit    float64
	forced   bool
}

// New returns a timeline running from now for d.
func New(now time.Time, d time.Duration) Timeline {
	return Timeline{start: now, duration: d}
}

// Capped returns a timeline whose progress clamps at limit (0 < limit < 1)
// until ForceComplete is called.
func Capped(now time.Time, d time.Duration, limit float64) Timeline {
	return Timeline{start: now, duration: d, limit: limit}
}

// Started reports whether the timeline has been armed. The zero value has not.
func (t Timeline) Started() bool {
	return !t.start.IsZero()
}

// Progress returns the fraction of the duration elapsed at now, clamped to
// [0,1] and to the cap when one is set. A forced timeline reports 1.
func (t Timeline) Progress(now time.Time) float64 {
	if t.forced {
		return 1
	}
	if !t.Started() || t.duration <= 0 {
		return 0
	}
	p := float64(now.Sub(t.start)) / float64(t.duration)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	if t.limit > 0 && p > t.limit {
		p = t.limit
	}
	return p
}

// Done reports completion at now. A capped timeline only completes once
// forced.
func (t Timeline) Done(now time.Time) bool {
	if t.forced {
		return true
	}
	if !t.Started() || t.limit > 0 {
		return false
	}
	return !now.Before(t.start.Add(t.duration))
}

// Remaining returns the wall-clock time left at now, never negative.
func (t Timeline) Remaining(now time.Time) time.Duration {
	if t.forced || !t.Started() {
		return 0
	}
	left := t.start.Add(t.duration).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// ForceComplete jumps the timeline to the end regardless of elapsed time.
func (t *Timeline) ForceComplete() {
	t.forced = true
}
