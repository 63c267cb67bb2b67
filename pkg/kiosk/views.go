package kiosk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/booth/pkg/session"
)

// View renders the whole screen for the current phase.
func (m Model) View() string {
	if m.termWidth == 0 || m.termHeight == 0 {
		return ""
	}

	var body string
	switch m.ctrl.Phase() {
	case session.PhaseGated:
		body = m.viewGate()
	case session.PhasePreview:
		body = m.viewPreview()
	case session.PhasePrepareCapture:
		body = m.viewReady()
	case session.PhaseCapturing:
		body = m.viewCapturing()
	case session.PhaseComposing:
		body = m.viewComposing()
	case session.PhaseUploading:
		body = m.viewUploading()
	case session.PhaseDistribution:
		body = m.viewDistribution()
	case session.PhaseNotifying:
		body = m.viewNotifying()
	}

	out := lipgloss.JoinVertical(lipgloss.Left, m.viewBanner(), body)
	if m.debug {
		out = lipgloss.JoinVertical(lipgloss.Left, out, m.viewDebug())
	}
	return out
}

// viewBanner is the two-line header: event name, then whichever of error,
// notice, or key hint applies.
func (m Model) viewBanner() string {
	title := m.ctrl.Profile().Event
	if title == "" {
		title = "photo booth"
	}

	status := m.theme.Banner.Hint.Render(m.hint())
	if m.ctrl.HasError() {
		status = m.theme.Banner.Error.Render(m.ctrl.ErrorText())
	} else if n := m.ctrl.Notice(); n != "" {
		status = m.theme.Banner.Notice.Render(n)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Banner.Event.Render(title),
		status,
	)
}

func (m Model) hint() string {
	switch m.ctrl.Phase() {
	case session.PhaseGated:
		if m.ctrl.Roster().Len() > 0 {
			return "↑/↓ pick your party · enter to check in"
		}
		return "press enter to start"
	case session.PhasePreview:
		return "space when everyone's in frame · esc to back out"
	case session.PhaseCapturing:
		return fmt.Sprintf("shot %d of %d", m.ctrl.Shot()+1, m.ctrl.Shots())
	case session.PhaseDistribution:
		if m.entering {
			return "type an address · enter to add · esc when done"
		}
		if m.ctrl.Profile().ManualRecipients {
			return "e to add an email · enter to send · esc to finish"
		}
		return "enter to send · esc to finish"
	default:
		return ""
	}
}

// viewFeed is the live camera block, or a quiet placeholder when the feed
// has nothing to show.
func (m Model) viewFeed() string {
	if m.frame == "" {
		return lipgloss.Place(m.previewWidth(), m.previewHeight(),
			lipgloss.Center, lipgloss.Center,
			m.theme.Banner.Hint.Render("· no camera feed ·"))
	}
	return m.frame
}

func (m Model) viewGate() string {
	parts := make([]string, 0, 4)
	if b := m.ctrl.Profile().Banner; b != "" {
		parts = append(parts, m.theme.Gate.Title.Render(wordwrap.String(b, m.termWidth-8)))
	}
	parts = append(parts, m.viewFeed())
	if m.ctrl.Roster().Len() > 0 {
		parts = append(parts, m.roster.View())
	} else {
		parts = append(parts, m.theme.Banner.Hint.Render("no guest list today, walk right up"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewPreview() string {
	return m.viewFeed()
}

func (m Model) viewReady() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewFeed(),
		m.bar.ViewAs(m.ctrl.ReadyProgress(m.ctrl.Now())),
		m.theme.Stage.ShotCount.Render("find your pose…"),
	)
}

func (m Model) viewCapturing() string {
	switch m.ctrl.Stage() {
	case session.StageFlash:
		return m.viewFlash()
	case session.StageReview:
		review := m.reviewFrame
		if review == "" {
			review = m.viewFeed()
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			review,
			m.theme.Stage.ShotCount.Render("looking good!"),
		)
	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.viewFeed(),
			m.viewCountdown(),
		)
	}
}

// viewCountdown draws the banner digit, colored across the whole count so
// the shutter edge reads red.
func (m Model) viewCountdown() string {
	from := m.ctrl.CountdownFrom()
	remaining := m.ctrl.Countdown()
	t := 0.0
	if from > 0 {
		t = (float64(from-remaining) + m.ctrl.StageProgress(m.ctrl.Now())) / float64(from)
	}
	digit := m.theme.Stage.Digit.Foreground(CountdownColor(t)).Render(bigNumber(remaining))
	return lipgloss.Place(m.previewWidth(), digitRows+1,
		lipgloss.Center, lipgloss.Center, digit)
}

// viewFlash whites out the stage for the shutter beat.
func (m Model) viewFlash() string {
	w := m.previewWidth()
	h := m.previewHeight() + digitRows
	row := strings.Repeat(" ", w)
	rows := make([]string, h)
	for i := range rows {
		rows[i] = row
	}
	return m.theme.Stage.Flash.Render(strings.Join(rows, "\n"))
}

func (m Model) viewComposing() string {
	return lipgloss.Place(m.previewWidth(), m.previewHeight(),
		lipgloss.Center, lipgloss.Center,
		m.spin.View()+" assembling your strip…")
}

func (m Model) viewUploading() string {
	parts := make([]string, 0, 3)
	if m.stripFrame != "" {
		parts = append(parts, m.stripFrame)
	}
	parts = append(parts,
		m.bar.ViewAs(m.ctrl.UploadProgress(m.ctrl.Now())),
		m.spin.View()+" sending your strip to the pickup desk…",
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewDistribution() string {
	parts := make([]string, 0, 6)

	if link := m.ctrl.Link(); link != "" {
		parts = append(parts, m.theme.Deliver.LinkFrame.Render(
			m.theme.Deliver.Link.Render(wordwrap.String(link, m.termWidth-12))))
	}
	if m.qrFrame != "" {
		parts = append(parts, m.qrFrame)
	}

	if recipients := m.ctrl.Recipients(); len(recipients) > 0 {
		lines := make([]string, 0, len(recipients)+1)
		lines = append(lines, m.theme.Deliver.Prompt.Render("sending to:"))
		for _, r := range recipients {
			lines = append(lines, m.theme.Deliver.Recipient.Render("  "+r))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if m.entering {
		parts = append(parts, m.theme.Deliver.Prompt.Render("add email: ")+m.input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewNotifying() string {
	return lipgloss.Place(m.previewWidth(), m.previewHeight(),
		lipgloss.Center, lipgloss.Center,
		m.spin.View()+" emailing your strip…")
}

// viewDebug is the ctrl+e overlay: the eventlog ring plus a few counters.
func (m Model) viewDebug() string {
	lines := []string{
		m.theme.Debug.Header.Render(fmt.Sprintf("phase=%s session=%s violations=%d",
			m.ctrl.Phase(), m.ctrl.ID(), m.ctrl.Violations())),
	}
	if m.log != nil {
		for _, l := range m.log.Tail(8) {
			lines = append(lines, m.theme.Debug.Line.Render(l))
		}
	}
	return m.theme.Debug.Frame.Width(m.termWidth - 2).Render(strings.Join(lines, "\n"))
}
