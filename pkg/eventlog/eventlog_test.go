package eventlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNilLoggerIsInert(t *testing.T) {
	var l *Logger
	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("dropped")
	l.Error("dropped")
	if got := l.Tail(10); got != nil {
		t.Fatalf("Tail on nil logger = %v, want nil", got)
	}
	if w := l.With("k", "v"); w != nil {
		t.Fatalf("With on nil logger = %v, want nil", w)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close on nil logger: %v", err)
	}
}

func TestRecordsAreJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")
	l.Info("session started", "session", "abc", "shots", 4)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "session started" {
		t.Errorf("msg = %v, want session started", rec["msg"])
	}
	if rec["session"] != "abc" {
		t.Errorf("session = %v, want abc", rec["session"])
	}
}

func TestLevelFiltersFile(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")
	l.Debug("quiet")
	l.Info("quiet")
	l.Warn("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Errorf("low levels leaked into file output: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("warn record missing from file output: %q", buf.String())
	}
}

func TestTailReturnsMostRecent(t *testing.T) {
	l := New(&bytes.Buffer{}, "debug")
	l.Info("one")
	l.Info("two")
	l.Info("three")

	got := l.Tail(2)
	if len(got) != 2 {
		t.Fatalf("Tail(2) returned %d records, want 2", len(got))
	}
	if !strings.Contains(got[0], "two") || !strings.Contains(got[1], "three") {
		t.Errorf("Tail(2) = %v, want oldest-first [two, three]", got)
	}
}

func TestRingWrapsAtCapacity(t *testing.T) {
	l := New(&bytes.Buffer{}, "debug")
	for i := 0; i < DefaultRingSize+5; i++ {
		l.Info("record", "i", i)
	}
	got := l.Tail(DefaultRingSize + 5)
	if len(got) != DefaultRingSize {
		t.Fatalf("ring holds %d records, want %d", len(got), DefaultRingSize)
	}
	if !strings.Contains(got[0], "i=5") {
		t.Errorf("oldest surviving record = %q, want i=5", got[0])
	}
}

func TestWithSharesRing(t *testing.T) {
	l := New(&bytes.Buffer{}, "debug")
	child := l.With("session", "xyz")
	child.Info("from child")

	got := l.Tail(1)
	if len(got) != 1 || !strings.Contains(got[0], "from child") {
		t.Errorf("parent Tail = %v, want child record visible", got)
	}
}
