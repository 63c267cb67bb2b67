// Package kiosk hosts the booth's full-screen terminal surface. It owns the
// frame clock, the live camera feed, and the widgets; every guest input is
// translated into a message for the session controller, which owns all
// state transitions.
package kiosk

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/progress"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	qrcode "github.com/skip2/go-qrcode"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/camera"
	"tableflip.dev/booth/pkg/eventlog"
	"tableflip.dev/booth/pkg/roster"
	"tableflip.dev/booth/pkg/session"
)

const (
	// tickRate drives the controller's timelines and the preview refresh.
	tickRate = time.Second / 30

	frameTimeout = 2 * time.Second
)

// Options wires a Model to its collaborators.
type Options struct {
	Controller session.Controller
	Camera     camera.Source
	Service    backend.Service
	Events     <-chan camera.Event
	Log        *eventlog.Logger
}

// partyItem adapts a roster entry to the check-in list.
type partyItem struct{ p roster.Party }

func (i partyItem) Title() string { return i.p.Label() }
func (i partyItem) Description() string {
	status := "not checked in"
	if i.p.Eligible {
		status = "checked in"
	}
	switch n := len(i.p.Emails); n {
	case 0:
		return status
	case 1:
		return status + " · 1 email on file"
	default:
		return fmt.Sprintf("%s · %d emails on file", status, n)
	}
}
func (i partyItem) FilterValue() string { return i.p.Name }

// messages owned by the host
type frameMsg struct {
	view string
	err  error
}

type camEventMsg struct {
	ev camera.Event
	ok bool
}

// Model is the bubbletea program state. The controller inside it is the
// single source of truth for the session; the rest is presentation.
type Model struct {
	ctrl   session.Controller
	cam    camera.Source
	svc    backend.Service
	events <-chan camera.Event
	log    *eventlog.Logger
	theme  Theme

	roster list.Model
	input  textinput.Model
	spin   spinner.Model
	bar    progress.Model

	frame    string
	fetching bool
	feedErr  error

	reviewFrame string
	photoCount  int
	stripFrame  string
	qrFrame     string

	entering bool
	debug    bool

	termWidth  int
	termHeight int
}

// New builds the kiosk around an already-constructed controller.
func New(opts Options) Model {
	if opts.Log == nil {
		opts.Log = eventlog.New(io.Discard, "warn")
	}

	d := list.NewDefaultDelegate()
	d.SetSpacing(0)

	l := list.New([]list.Item{}, d, 48, 12)
	l.Title = "Who's up next?"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "guest@example.com"
	ti.CharLimit = 254
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	m := Model{
		ctrl:   opts.Controller,
		cam:    opts.Camera,
		svc:    opts.Service,
		events: opts.Events,
		log:    opts.Log,
		theme:  Default(),
		roster: l,
		input:  ti,
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(48)),
	}
	m.syncRoster()
	return m
}

// Init starts the clock, the spinner, the hotplug pump, and the first
// profile fetch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.spin.Tick}
	if m.svc != nil {
		cmds = append(cmds, session.ProfileCmd(m.svc))
	}
	if m.events != nil {
		cmds = append(cmds, watchCmd(m.events))
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickRate, func(at time.Time) tea.Msg {
		return session.TickMsg{At: at}
	})
}

// frameCmd grabs one preview frame and renders it off the update loop.
// Size and feed options are captured at arm time so a phase change mid-grab
// shows at worst one stale frame.
func frameCmd(src camera.Source, opts camera.FeedOptions, w, h int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
		defer cancel()
		img, err := src.PreviewFrame(ctx)
		if err != nil {
			return frameMsg{err: err}
		}
		return frameMsg{view: renderFrame(camera.Process(img, opts), w, h)}
	}
}

// watchCmd delivers one hotplug event; the handler re-arms it.
func watchCmd(events <-chan camera.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return camEventMsg{ev: ev, ok: ok}
	}
}

// Update routes host concerns, then forwards everything else into the
// controller.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.fetching = false
		if msg.err != nil {
			m.frame = ""
			m.feedErr = msg.err
		} else {
			m.frame = msg.view
			m.feedErr = nil
		}
		return m, nil

	case camEventMsg:
		if !msg.ok {
			return m, nil
		}
		label := "attached"
		if msg.ev.Type == camera.EventDetached {
			label = "detached"
			m.frame = ""
		}
		m.log.Info("camera hotplug", "event", label, "path", msg.ev.Path)
		return m, watchCmd(m.events)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case session.TickMsg:
		cmds = append(cmds, tickCmd())
		if m.cam != nil && !m.fetching {
			m.fetching = true
			cmds = append(cmds, frameCmd(m.cam, m.ctrl.FeedOptions(), m.previewWidth(), m.previewHeight()))
		}
	}

	before := m.ctrl.Phase()
	var cmd tea.Cmd
	m.ctrl, cmd = m.ctrl.Update(msg)
	cmds = append(cmds, cmd)

	if after := m.ctrl.Phase(); after != before {
		cmds = append(cmds, m.phaseChanged(after))
	}

	switch msg.(type) {
	case session.KeyReleasedMsg:
		m.syncSelection()
	case session.ProfileLoadedMsg:
		m.syncRoster()
	case session.CaptureCompletedMsg:
		if n := m.ctrl.PhotoCount(); n != m.photoCount {
			m.photoCount = n
			m.reviewFrame = renderFrame(m.ctrl.LastPhoto(), m.previewWidth(), m.previewHeight())
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKey maps physical keys onto the controller's input surface. Keys
// never reach the controller directly; they come back as KeyReleasedMsg
// through the command loop.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.entering {
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.entering = false
			m.input.Blur()
			return m, nil
		case "enter":
			addr := strings.TrimSpace(m.input.Value())
			if addr == "" {
				// Done typing; an empty submit means "send it".
				m.entering = false
				m.input.Blur()
				return m, session.KeyReleasedCmd(session.KeyConfirm, time.Now())
			}
			m.input.SetValue("")
			return m, session.RecipientEnteredCmd(addr)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+e":
		m.debug = !m.debug
		return m, nil
	case "enter", "space":
		return m, session.KeyReleasedCmd(session.KeyConfirm, time.Now())
	case "up", "k":
		return m, session.KeyReleasedCmd(session.KeyUp, time.Now())
	case "down", "j":
		return m, session.KeyReleasedCmd(session.KeyDown, time.Now())
	case "esc", "q":
		return m, session.KeyReleasedCmd(session.KeyCancel, time.Now())
	case "e":
		if m.ctrl.Phase() == session.PhaseDistribution && m.ctrl.Profile().ManualRecipients {
			m.entering = true
			return m, m.input.Focus()
		}
	}
	return m, nil
}

// phaseChanged runs the presentation side effects of a controller
// transition: pre-rendering heavy art so View stays cheap, and moving input
// focus where the new phase expects it.
func (m *Model) phaseChanged(p session.Phase) tea.Cmd {
	switch p {
	case session.PhaseGated:
		m.entering = false
		m.input.Blur()
		m.input.SetValue("")
		m.photoCount = 0
		m.reviewFrame = ""
		m.stripFrame = ""
		m.qrFrame = ""
		m.syncSelection()

	case session.PhaseUploading:
		m.stripFrame = renderFrame(m.ctrl.Strip(), m.previewWidth(), m.previewHeight()-2)

	case session.PhaseDistribution:
		m.qrFrame = qrBlock(m.ctrl.Link())
		if m.ctrl.Profile().ManualRecipients && len(m.ctrl.Recipients()) == 0 {
			m.entering = true
			return m.input.Focus()
		}
	}
	return nil
}

// qrBlock renders a pickup link as a scannable code. Non-http links (the
// offline backend hands out file:// paths) get no code.
func qrBlock(link string) string {
	if !strings.HasPrefix(link, "http") {
		return ""
	}
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return ""
	}
	return renderPixels(q.Image(-1))
}

// syncRoster rebuilds the check-in list from the controller's roster.
func (m *Model) syncRoster() {
	parties := m.ctrl.Roster().Parties()
	items := make([]list.Item, 0, len(parties))
	for _, p := range parties {
		items = append(items, partyItem{p: p})
	}
	m.roster.SetItems(items)
	m.syncSelection()
}

// syncSelection mirrors the controller's selection onto the list widget.
// The widget is display only; the controller owns which party is chosen.
func (m *Model) syncSelection() {
	if i := m.ctrl.Roster().SelectedIndex(); i >= 0 && i != m.roster.Index() {
		m.roster.Select(i)
	}
}

func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	w := m.termWidth - 8
	if w < 24 {
		w = 24
	}
	if w > 56 {
		w = 56
	}
	h := m.termHeight - 16
	if h < 4 {
		h = 4
	}
	if h > 8 {
		h = 8
	}
	m.roster.SetSize(w, h)

	bw := m.termWidth - 12
	if bw < 16 {
		bw = 16
	}
	if bw > 48 {
		bw = 48
	}
	m.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(bw))
}

// previewWidth and previewHeight size the live feed area. The frame box is
// the same in every phase so a pending grab never lands at the wrong size.
func (m Model) previewWidth() int {
	w := m.termWidth - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) previewHeight() int {
	h := m.termHeight - 12
	if h < 6 {
		h = 6
	}
	return h
}

// Run starts the kiosk full screen and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
