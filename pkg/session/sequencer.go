package session

import (
	"image"
	"time"

	"tableflip.dev/booth/pkg/timeline"
)

// Stage is the sub-state within the capturing phase. Each shot walks
// Countdown, Flash, Review in order.
type Stage int

const (
	StageCountdown Stage = iota
	StageFlash
	StageReview
)

func (s Stage) String() string {
	switch s {
	case StageCountdown:
		return "countdown"
	case StageFlash:
		return "flash"
	case StageReview:
		return "review"
	default:
		return "unknown"
	}
}

type sequenceEventKind int

const (
	seqNone sequenceEventKind = iota
	// seqRequestCapture fires exactly once per shot, on the countdown→flash
	// edge.
	seqRequestCapture
	seqShotDone
	seqSequenceDone
)

// sequenceEvent is the at-most-one output of a sequencer tick.
type sequenceEvent struct {
	kind sequenceEventKind
	shot int
}

// sequencer owns the multi-shot ritual: the shot index persists across the
// whole sequence while the countdown counter is local to each shot. It is a
// value; callers keep the returned copy.
type sequencer struct {
	timings  Timings
	active   bool
	shot     int
	stage    Stage
	counter  int
	tl       timeline.Timeline
	photos   []image.Image
	awaiting bool
}

// beginSequence arms shot 0's countdown. The photo list starts empty.
func beginSequence(t Timings, now time.Time) sequencer {
	return sequencer{
		timings: t,
		active:  true,
		stage:   StageCountdown,
		counter: t.CountdownFrom,
		tl:      timeline.New(now, t.CountdownStep),
		photos:  make([]image.Image, 0, t.Shots),
	}
}

// tick advances the active stage's timeline and returns at most one event.
// Transitions are edge-triggered: a completed timeline fires once and the
// next stage arms a fresh one.
func (s sequencer) tick(now time.Time) (sequencer, sequenceEvent) {
	if !s.active {
		return s, sequenceEvent{}
	}
	switch s.stage {
	case StageCountdown:
		if !s.tl.Done(now) {
			return s, sequenceEvent{}
		}
		if s.counter > 1 {
			s.counter--
			s.tl = timeline.New(now, s.timings.CountdownStep)
			return s, sequenceEvent{}
		}
		s.counter = 0
		s.stage = StageFlash
		s.tl = timeline.New(now, s.timings.Flash)
		s.awaiting = true
		return s, sequenceEvent{kind: seqRequestCapture, shot: s.shot}

	case StageFlash:
		// Flash exits on capture completion, not on its timeline; the
		// timeline only drives the white-out animation.
		return s, sequenceEvent{}

	case StageReview:
		if !s.tl.Done(now) {
			return s, sequenceEvent{}
		}
		if s.shot+1 < s.timings.Shots {
			done := s.shot
			s.shot++
			s.stage = StageCountdown
			s.counter = s.timings.CountdownFrom
			s.tl = timeline.New(now, s.timings.CountdownStep)
			return s, sequenceEvent{kind: seqShotDone, shot: done}
		}
		s.active = false
		return s, sequenceEvent{kind: seqSequenceDone, shot: s.shot}
	}
	return s, sequenceEvent{}
}

// expects reports whether a completion for the given shot is the one
// outstanding capture. Anything else is a protocol violation.
func (s sequencer) expects(shot int) bool {
	return s.active && s.stage == StageFlash && s.awaiting && shot == s.shot
}

// accept appends the captured photo and moves the shot into review.
func (s sequencer) accept(photo image.Image, now time.Time) sequencer {
	s.awaiting = false
	s.photos = append(s.photos, photo)
	s.stage = StageReview
	s.tl = timeline.New(now, s.timings.Review)
	return s
}
