package session

import (
	"image"
	"testing"
	"time"
)

func testTimings() Timings {
	return Timings{}.normalized()
}

func TestSequencerCountdownCadence(t *testing.T) {
	at := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	s := beginSequence(testTimings(), at)
	if s.counter != 3 || s.stage != StageCountdown {
		t.Fatalf("armed sequencer: counter = %d stage = %v", s.counter, s.stage)
	}

	// Mid-segment ticks change nothing.
	var ev sequenceEvent
	s, ev = s.tick(at.Add(300 * time.Millisecond))
	if ev.kind != seqNone || s.counter != 3 {
		t.Fatalf("mid-segment: ev = %v counter = %d", ev.kind, s.counter)
	}

	at = at.Add(time.Second + padding)
	s, ev = s.tick(at)
	if ev.kind != seqNone || s.counter != 2 {
		t.Fatalf("after first segment: ev = %v counter = %d", ev.kind, s.counter)
	}

	// The segment completion already consumed the edge; an immediate
	// re-tick is a no-op.
	s, ev = s.tick(at)
	if ev.kind != seqNone || s.counter != 2 {
		t.Fatalf("same-instant re-tick: ev = %v counter = %d", ev.kind, s.counter)
	}

	at = at.Add(time.Second + padding)
	s, ev = s.tick(at)
	if s.counter != 1 {
		t.Fatalf("counter = %d, want 1", s.counter)
	}

	at = at.Add(time.Second + padding)
	s, ev = s.tick(at)
	if ev.kind != seqRequestCapture || ev.shot != 0 {
		t.Fatalf("countdown edge: ev = %+v, want capture request for shot 0", ev)
	}
	if s.stage != StageFlash || !s.awaiting || s.counter != 0 {
		t.Fatalf("flash entry: %+v", s)
	}
}

func TestSequencerRequestsEachShotOnce(t *testing.T) {
	at := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	tm := testTimings()
	s := beginSequence(tm, at)

	requests, completions := 0, 0
	for i := 0; i < 4000; i++ {
		at = at.Add(33 * time.Millisecond)
		var ev sequenceEvent
		s, ev = s.tick(at)
		switch ev.kind {
		case seqRequestCapture:
			requests++
			if !s.expects(ev.shot) {
				t.Fatalf("request for shot %d the sequencer does not expect", ev.shot)
			}
			s = s.accept(image.NewRGBA(image.Rect(0, 0, 2, 2)), at)
		case seqSequenceDone:
			completions++
		}
		if !s.active {
			break
		}
	}

	if requests != tm.Shots {
		t.Fatalf("capture requests = %d, want %d", requests, tm.Shots)
	}
	if completions != 1 {
		t.Fatalf("sequence completions = %d, want 1", completions)
	}
	if len(s.photos) != tm.Shots {
		t.Fatalf("photos = %d, want %d", len(s.photos), tm.Shots)
	}
}

func TestSequencerFlashWaitsForCompletion(t *testing.T) {
	at := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	s := beginSequence(testTimings(), at)

	for i := 0; i < 3; i++ {
		at = at.Add(time.Second + padding)
		s, _ = s.tick(at)
	}
	if s.stage != StageFlash {
		t.Fatalf("stage = %v, want flash", s.stage)
	}

	// However long the device takes, flash holds until the photograph
	// arrives; its timeline only drives the white-out.
	at = at.Add(time.Minute)
	var ev sequenceEvent
	s, ev = s.tick(at)
	if ev.kind != seqNone || s.stage != StageFlash {
		t.Fatalf("flash advanced without a photograph: ev = %v stage = %v", ev.kind, s.stage)
	}

	s = s.accept(image.NewRGBA(image.Rect(0, 0, 2, 2)), at)
	if s.stage != StageReview || s.awaiting {
		t.Fatalf("after accept: %+v", s)
	}
}

func TestSequencerExpectsOnlyTheOutstandingShot(t *testing.T) {
	at := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	s := beginSequence(testTimings(), at)

	if s.expects(0) {
		t.Fatal("countdown stage should expect no completion")
	}
	for i := 0; i < 3; i++ {
		at = at.Add(time.Second + padding)
		s, _ = s.tick(at)
	}
	if !s.expects(0) {
		t.Fatal("flash stage should expect shot 0")
	}
	if s.expects(1) {
		t.Fatal("flash stage expects only its own shot")
	}

	s = s.accept(image.NewRGBA(image.Rect(0, 0, 2, 2)), at)
	if s.expects(0) {
		t.Fatal("review stage should expect no completion")
	}
}

func TestSequencerShotCounterPersistsAcrossShots(t *testing.T) {
	at := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	tm := testTimings()
	s := beginSequence(tm, at)

	for shot := 0; shot < tm.Shots; shot++ {
		if s.shot != shot {
			t.Fatalf("shot = %d, want %d", s.shot, shot)
		}
		for i := 0; i < tm.CountdownFrom; i++ {
			at = at.Add(time.Second + padding)
			s, _ = s.tick(at)
		}
		if s.counter != 0 {
			t.Fatalf("shot %d: countdown counter = %d at flash, want 0", shot, s.counter)
		}
		s = s.accept(image.NewRGBA(image.Rect(0, 0, 2, 2)), at)

		at = at.Add(tm.Review + padding)
		var ev sequenceEvent
		s, ev = s.tick(at)
		if shot+1 < tm.Shots {
			if ev.kind != seqShotDone || s.counter != tm.CountdownFrom {
				t.Fatalf("shot %d: ev = %v counter = %d", shot, ev.kind, s.counter)
			}
		} else if ev.kind != seqSequenceDone {
			t.Fatalf("final shot: ev = %v, want sequence done", ev.kind)
		}
	}
	if s.active {
		t.Fatal("sequencer still active after the last shot")
	}
}
