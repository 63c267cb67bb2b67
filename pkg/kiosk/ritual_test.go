package kiosk

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/roster"
	"tableflip.dev/booth/pkg/session"
)

// driveToDistribution walks a whole ritual through the kiosk's update loop:
// gate, preview, the four-shot sequence, compose, upload. Async completions
// are executed synchronously whenever a transition produces them.
func driveToDistribution(t *testing.T, m Model) Model {
	t.Helper()

	at := time.Now()
	m = feed(t, m, session.KeyReleasedMsg{Key: session.KeyConfirm, At: at})
	if got := m.ctrl.Phase(); got != session.PhasePreview {
		t.Fatalf("gate did not open, phase is %s", got)
	}
	m = feed(t, m, session.KeyReleasedMsg{Key: session.KeyConfirm, At: at})
	if got := m.ctrl.Phase(); got != session.PhasePrepareCapture {
		t.Fatalf("preview did not confirm, phase is %s", got)
	}

	prevPhase, prevStage := m.ctrl.Phase(), m.ctrl.Stage()
	for i := 0; i < 1200; i++ {
		if m.ctrl.Phase() == session.PhaseDistribution {
			return m
		}
		at = at.Add(100 * time.Millisecond)
		next, cmd := m.Update(session.TickMsg{At: at})
		m = next.(Model)

		// Only transition edges produce async work; pumping every tick
		// would also re-run the self-arming clocks.
		if phase, stage := m.ctrl.Phase(), m.ctrl.Stage(); phase != prevPhase || stage != prevStage {
			m = pump(t, m, cmd)
			prevPhase, prevStage = m.ctrl.Phase(), m.ctrl.Stage()
		}
	}
	t.Fatalf("ritual never reached distribution, stuck in %s", m.ctrl.Phase())
	return m
}

func TestRitualReachesDistribution(t *testing.T) {
	m, svc := newTestModel()
	m = driveToDistribution(t, m)

	if svc.uploads != 1 {
		t.Fatalf("expected exactly one upload, got %d", svc.uploads)
	}
	if m.ctrl.Link() != "https://strips.example.com/strip-9" {
		t.Fatalf("pickup link wrong: %q", m.ctrl.Link())
	}
	if m.qrFrame == "" {
		t.Fatalf("expected a QR block for an http link")
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "https://strips.example.com/strip-9") {
		t.Fatalf("pickup link missing from view:\n%s", view)
	}
	if m.ctrl.Violations() != 0 {
		t.Fatalf("clean ritual logged %d violations", m.ctrl.Violations())
	}
}

func TestConfirmWithNoRecipientsReturnsToGate(t *testing.T) {
	m, svc := newTestModel()
	m = driveToDistribution(t, m)

	m = feed(t, m, session.KeyReleasedMsg{Key: session.KeyConfirm, At: time.Now()})
	if got := m.ctrl.Phase(); got != session.PhaseGated {
		t.Fatalf("expected return to gate, got %s", got)
	}
	if svc.notifies != 0 {
		t.Fatalf("nothing to send, but Notify ran %d times", svc.notifies)
	}
	if m.qrFrame != "" || m.stripFrame != "" || m.reviewFrame != "" {
		t.Fatalf("gate return should drop the session's art")
	}
}

func TestManualEntryFocusesOnDistribution(t *testing.T) {
	m, svc := newTestModel()
	svc.profile = backend.Profile{Event: "Launch Party", ManualRecipients: true}
	m = feed(t, m, session.ProfileLoadedMsg{Profile: svc.profile})

	m = driveToDistribution(t, m)
	if !m.entering {
		t.Fatalf("manual-recipient booths should open the entry overlay")
	}

	m.input.SetValue("doe@example.com")
	m = feed(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.ctrl.Recipients(); len(got) != 1 || got[0] != "doe@example.com" {
		t.Fatalf("recipient not recorded, got %v", got)
	}

	// Done typing; an empty enter sends the strip.
	m = feed(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.ctrl.Phase(); got != session.PhaseGated {
		t.Fatalf("send should finish back at the gate, got %s", got)
	}
	if svc.notifies != 1 {
		t.Fatalf("expected one notification, got %d", svc.notifies)
	}
	if len(svc.lastRecipients) != 1 || svc.lastRecipients[0] != "doe@example.com" {
		t.Fatalf("wrong recipients delivered: %v", svc.lastRecipients)
	}
	if !strings.Contains(stripANSI(m.View()), "sent to 1 guest") {
		t.Fatalf("send notice missing from gate view:\n%s", stripANSI(m.View()))
	}
}

func TestCheckedInPartySeedsRecipients(t *testing.T) {
	m, svc := newTestModel(roster.Party{
		ID:       "p1",
		Name:     "The Does",
		Emails:   []string{"jane@example.com", "john@example.com"},
		Eligible: true,
	})
	m = driveToDistribution(t, m)

	if got := m.ctrl.Recipients(); len(got) != 2 {
		t.Fatalf("party emails should seed the list, got %v", got)
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "jane@example.com") || !strings.Contains(view, "john@example.com") {
		t.Fatalf("seeded recipients missing from view:\n%s", view)
	}

	m = feed(t, m, session.KeyReleasedMsg{Key: session.KeyConfirm, At: time.Now()})
	if svc.notifies != 1 || len(svc.lastRecipients) != 2 {
		t.Fatalf("expected one send to two guests, got %d sends to %v", svc.notifies, svc.lastRecipients)
	}
	if svc.uploads != 1 {
		t.Fatalf("the whole flow should upload exactly once, got %d", svc.uploads)
	}
}
