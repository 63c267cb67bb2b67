package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingIsWalkUp(t *testing.T) {
	parties, err := LoadFile(filepath.Join(t.TempDir(), "parties.json"))
	if err != nil {
		t.Fatalf("LoadFile on a missing file = %v", err)
	}
	if len(parties) != 0 {
		t.Fatalf("parties = %v, want none", parties)
	}
}

func TestLoadFileParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parties.json")
	data := `[
		{"id": "t1", "name": "The Does", "emails": ["doe@example.com"], "eligible": true},
		{"id": "t2", "name": "Crew"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	parties, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile = %v", err)
	}
	if len(parties) != 2 {
		t.Fatalf("got %d parties, want 2", len(parties))
	}
	if parties[0].Name != "The Does" || !parties[0].Eligible {
		t.Fatalf("first party = %+v", parties[0])
	}
	if len(parties[0].Emails) != 1 || parties[0].Emails[0] != "doe@example.com" {
		t.Fatalf("first party emails = %v", parties[0].Emails)
	}
	if parties[1].Eligible {
		t.Fatalf("second party should not be eligible by default")
	}
}

func TestLoadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parties.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}
