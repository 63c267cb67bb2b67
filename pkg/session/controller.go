// Package session is the capture session state machine: one visitor's cycle
// from the check-in gate through the countdown ritual, strip composition,
// upload, and email notification. The controller is an explicitly owned
// value fed bubbletea messages; all phase mutation happens synchronously in
// Update, and blocking work leaves the loop as a tea.Cmd that delivers a
// single completion message.
package session

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/google/uuid"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/camera"
	"tableflip.dev/booth/pkg/compose"
	"tableflip.dev/booth/pkg/eventlog"
	"tableflip.dev/booth/pkg/roster"
	"tableflip.dev/booth/pkg/timeline"
)

// Phase names the controller's current state. Transitions are monotonic
// within a cycle; the only backward edges land in Gated, on success and on
// every failure.
type Phase int

const (
	PhaseGated Phase = iota
	PhasePreview
	PhasePrepareCapture
	PhaseCapturing
	PhaseComposing
	PhaseUploading
	PhaseDistribution
	PhaseNotifying
)

func (p Phase) String() string {
	switch p {
	case PhaseGated:
		return "gated"
	case PhasePreview:
		return "preview"
	case PhasePrepareCapture:
		return "prepare"
	case PhaseCapturing:
		return "capturing"
	case PhaseComposing:
		return "composing"
	case PhaseUploading:
		return "uploading"
	case PhaseDistribution:
		return "distribution"
	case PhaseNotifying:
		return "notifying"
	default:
		return "unknown"
	}
}

// Timings drives every timeline in the ritual. Zero fields take defaults.
type Timings struct {
	Shots         int
	CountdownFrom int
	CountdownStep time.Duration
	Ready         time.Duration
	Flash         time.Duration
	Review        time.Duration
	UploadRamp    time.Duration
	UploadCap     float64
}

// DefaultTimings is the stage ritual as run at events: four shots, a 3-2-1
// count, and an upload bar that ramps over 8s but never fills on its own.
func DefaultTimings() Timings {
	return Timings{
		Shots:         4,
		CountdownFrom: 3,
		CountdownStep: time.Second,
		Ready:         3 * time.Second,
		Flash:         500 * time.Millisecond,
		Review:        2 * time.Second,
		UploadRamp:    8 * time.Second,
		UploadCap:     0.95,
	}
}

func (t Timings) normalized() Timings {
	d := DefaultTimings()
	if t.Shots <= 0 {
		t.Shots = d.Shots
	}
	if t.CountdownFrom <= 0 {
		t.CountdownFrom = d.CountdownFrom
	}
	if t.CountdownStep <= 0 {
		t.CountdownStep = d.CountdownStep
	}
	if t.Ready <= 0 {
		t.Ready = d.Ready
	}
	if t.Flash <= 0 {
		t.Flash = d.Flash
	}
	if t.Review <= 0 {
		t.Review = d.Review
	}
	if t.UploadRamp <= 0 {
		t.UploadRamp = d.UploadRamp
	}
	if t.UploadCap <= 0 || t.UploadCap >= 1 {
		t.UploadCap = d.UploadCap
	}
	return t
}

// Options configures a Controller.
type Options struct {
	Camera  camera.Source
	Service backend.Service
	Log     *eventlog.Logger
	Timings Timings
	Roster  roster.Roster
	// Template is an optional background painted behind the strip slots.
	Template image.Image
}

// Controller runs one session at a time. It is a value: Update returns the
// next state and the caller keeps it. Session data lives only in memory and
// is discarded on every return to Gated.
type Controller struct {
	timings  Timings
	camera   camera.Source
	service  backend.Service
	log      *eventlog.Logger
	template image.Image

	phase Phase
	id    string
	now   time.Time

	roster  roster.Roster
	profile backend.Profile

	seq      sequencer
	uploader uploader

	ready     timeline.Timeline
	uploading timeline.Timeline

	strip      image.Image
	handle     backend.Handle
	hasHandle  bool
	link       string
	recipients []string

	errFlag    bool
	errText    string
	notice     string
	violations int
}

// New returns a Controller waiting at the gate.
func New(opts Options) Controller {
	return Controller{
		timings:  opts.Timings.normalized(),
		camera:   opts.Camera,
		service:  opts.Service,
		log:      opts.Log,
		template: opts.Template,
		roster:   opts.Roster,
		phase:    PhaseGated,
	}
}

// Update is the single transition function. Unrecognized messages pass
// through untouched.
func (c Controller) Update(msg tea.Msg) (Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		return c.tick(msg.At)
	case KeyReleasedMsg:
		return c.keyReleased(msg)
	case CaptureCompletedMsg:
		return c.captureCompleted(msg)
	case UploadCompletedMsg:
		return c.uploadCompleted(msg)
	case NotificationCompletedMsg:
		return c.notificationCompleted(msg)
	case ProfileLoadedMsg:
		return c.profileLoaded(msg)
	case RecipientEnteredMsg:
		return c.recipientEntered(msg)
	}
	return c, nil
}

// tick advances whichever timeline the current phase owns. Transitions are
// edge-triggered: a completed timeline fires once and the next phase arms a
// fresh one.
func (c Controller) tick(at time.Time) (Controller, tea.Cmd) {
	c.now = at
	switch c.phase {
	case PhasePrepareCapture:
		if c.ready.Done(at) {
			c.seq = beginSequence(c.timings, at)
			c = c.setPhase(PhaseCapturing)
		}

	case PhaseCapturing:
		var ev sequenceEvent
		c.seq, ev = c.seq.tick(at)
		switch ev.kind {
		case seqRequestCapture:
			c.log.Debug("capture requested", "session", c.id, "shot", ev.shot)
			return c, CaptureCmd(c.camera, c.id, ev.shot)
		case seqShotDone:
			c.log.Debug("shot finished", "session", c.id, "shot", ev.shot)
		case seqSequenceDone:
			return c.enterComposing(at)
		}

	case PhaseUploading:
		if c.uploading.Done(at) && c.hasHandle {
			c = c.setPhase(PhaseDistribution)
			if party, ok := c.roster.Selected(); ok {
				c.recipients = roster.Recipients(party)
			}
		}
	}
	return c, nil
}

func (c Controller) keyReleased(msg KeyReleasedMsg) (Controller, tea.Cmd) {
	c.log.Debug("key released", "key", msg.Key.String(), "phase", c.phase.String())
	switch c.phase {
	case PhaseGated:
		switch msg.Key {
		case KeyConfirm:
			return c.openGate(msg.At), nil
		case KeyUp:
			c.roster.MoveUp()
		case KeyDown:
			c.roster.MoveDown()
		}

	case PhasePreview:
		switch msg.Key {
		case KeyConfirm:
			c.ready = timeline.New(msg.At, c.timings.Ready)
			return c.setPhase(PhasePrepareCapture), nil
		case KeyCancel:
			return c.enterGated(false, ""), nil
		}

	case PhaseDistribution:
		switch msg.Key {
		case KeyConfirm:
			return c.submitRecipients()
		case KeyCancel:
			return c.enterGated(false, ""), nil
		}
	}
	// The ritual phases ignore input; a visitor mashing buttons mid-count
	// must not derail the sequence.
	return c, nil
}

// openGate runs the eligibility check and either starts a session or flags
// why not. The check is a local predicate over the fetched roster; no
// network call happens on this edge.
func (c Controller) openGate(at time.Time) Controller {
	if party, ok := c.roster.Selected(); ok && !party.Eligible {
		c.errFlag = true
		c.errText = fmt.Sprintf("%s is not checked in yet", party.Label())
		c.log.Warn("gate refused", "party", party.Label())
		return c
	}
	c.id = uuid.NewString()
	c.errFlag, c.errText, c.notice = false, "", ""
	c.now = at
	c.log.Info("session started", "session", c.id, "party", c.partyLabel())
	return c.setPhase(PhasePreview)
}

// enterComposing builds the strip synchronously and starts the session's one
// upload. The composing phase never outlives the Update that entered it.
func (c Controller) enterComposing(at time.Time) (Controller, tea.Cmd) {
	c = c.setPhase(PhaseComposing)

	strip, err := compose.StripOn(c.template, c.seq.photos)
	if err != nil {
		c.log.Error("compose failed", "session", c.id, "err", err)
		return c.enterGated(true, "could not build the strip"), nil
	}
	c.strip = strip

	take := backend.Take{
		ID:     c.id,
		At:     at,
		Party:  c.partyLabel(),
		Strip:  strip,
		Photos: append([]image.Image(nil), c.seq.photos...),
	}
	var cmd tea.Cmd
	c.uploader, cmd, err = c.uploader.start(c.service, take)
	if err != nil {
		c.log.Error("upload rejected", "session", c.id, "err", err)
		return c.enterGated(true, "could not upload"), nil
	}
	c.log.Info("upload started", "session", c.id, "shots", len(take.Photos))
	c.uploading = timeline.Capped(at, c.timings.UploadRamp, c.timings.UploadCap)
	return c.setPhase(PhaseUploading), cmd
}

func (c Controller) captureCompleted(msg CaptureCompletedMsg) (Controller, tea.Cmd) {
	if msg.Session != c.id || c.phase != PhaseCapturing || !c.seq.expects(msg.Shot) {
		return c.violation("stale capture completion", msg), nil
	}
	if msg.Err != nil {
		c.log.Error("capture failed", "session", c.id, "shot", msg.Shot, "err", msg.Err)
		return c.enterGated(true, "camera failed"), nil
	}
	c.log.Debug("capture completed", "session", c.id, "shot", msg.Shot)
	c.seq = c.seq.accept(msg.Photo, msg.At)
	return c, nil
}

func (c Controller) uploadCompleted(msg UploadCompletedMsg) (Controller, tea.Cmd) {
	if msg.Session != c.id || c.phase != PhaseUploading || !c.uploader.expects() {
		return c.violation("stale upload completion", msg), nil
	}
	c.uploader = c.uploader.finish()
	if msg.Err != nil {
		c.log.Error("upload failed", "session", c.id, "err", msg.Err)
		return c.enterGated(true, "could not upload"), nil
	}
	c.handle = msg.Handle
	c.hasHandle = true
	c.link = msg.Link
	c.uploading.ForceComplete()
	c.log.Info("upload completed", "session", c.id, "strip", msg.Handle.StripID, "folder", msg.Handle.FolderID)
	return c, nil
}

// submitRecipients is the Distribution confirm edge: with addresses it
// dispatches the notification, with none the session ends cleanly. Dispatch
// consumes the upload handle; without one it is refused, not skipped.
func (c Controller) submitRecipients() (Controller, tea.Cmd) {
	if len(c.recipients) == 0 {
		c.log.Info("session finished without notification", "session", c.id)
		return c.enterGated(false, ""), nil
	}
	if !c.hasHandle {
		c.log.Error("notification refused: no upload handle", "session", c.id, "recipients", len(c.recipients))
		return c, nil
	}
	c.log.Info("notification started", "session", c.id, "recipients", len(c.recipients))
	cmd := NotifyCmd(c.service, c.id, c.handle, append([]string(nil), c.recipients...))
	return c.setPhase(PhaseNotifying), cmd
}

func (c Controller) notificationCompleted(msg NotificationCompletedMsg) (Controller, tea.Cmd) {
	if msg.Session != c.id || c.phase != PhaseNotifying {
		return c.violation("stale notification completion", msg), nil
	}
	if msg.Err != nil {
		c.log.Error("notification failed", "session", c.id, "err", msg.Err)
		return c.enterGated(true, "could not send the email"), nil
	}
	c.log.Info("notification completed", "session", c.id, "recipients", msg.Recipients)
	c = c.enterGated(false, "")
	if msg.Recipients == 1 {
		c.notice = "strip sent to 1 guest"
	} else {
		c.notice = fmt.Sprintf("strip sent to %d guests", msg.Recipients)
	}
	return c, nil
}

func (c Controller) profileLoaded(msg ProfileLoadedMsg) (Controller, tea.Cmd) {
	if msg.Err != nil {
		c.log.Warn("profile load failed", "err", msg.Err)
		return c, nil
	}
	c.log.Info("profile loaded", "event", msg.Profile.Event, "parties", len(msg.Profile.Parties))
	c.profile = msg.Profile
	if len(msg.Profile.Parties) > 0 {
		c.roster.Replace(msg.Profile.Parties)
	}
	return c, nil
}

func (c Controller) recipientEntered(msg RecipientEnteredMsg) (Controller, tea.Cmd) {
	if c.phase != PhaseDistribution {
		return c.violation("recipient entered out of phase", msg), nil
	}
	addr := strings.TrimSpace(msg.Address)
	if addr == "" || !strings.Contains(addr, "@") {
		return c, nil
	}
	for _, have := range c.recipients {
		if strings.EqualFold(have, addr) {
			return c, nil
		}
	}
	c.recipients = append(c.recipients, addr)
	c.log.Debug("recipient added", "session", c.id, "recipients", len(c.recipients))
	return c, nil
}

// enterGated resets the session. Nothing outlives this except the roster,
// the profile, and the violation count: photos, strip, handle, link, and
// recipients are all discarded. A fresh id is issued at the gate, so a late
// completion addressed to the dead session can never match again.
func (c Controller) enterGated(flag bool, text string) Controller {
	c = c.setPhase(PhaseGated)
	c.id = ""
	c.seq = sequencer{}
	c.uploader = uploader{}
	c.ready = timeline.Timeline{}
	c.uploading = timeline.Timeline{}
	c.strip = nil
	c.handle = backend.Handle{}
	c.hasHandle = false
	c.link = ""
	c.recipients = nil
	c.errFlag = flag
	c.errText = text
	c.notice = ""
	return c
}

// violation records an event that is impossible in the current phase: a
// defensive no-op, logged and counted, never surfaced to the visitor.
func (c Controller) violation(reason string, msg interface{ Describe() string }) Controller {
	c.violations++
	c.log.Warn("protocol violation", "reason", reason, "phase", c.phase.String(), "session", c.id, "msg", msg.Describe())
	return c
}

func (c Controller) setPhase(p Phase) Controller {
	c.log.Debug("phase", "session", c.id, "from", c.phase.String(), "to", p.String())
	c.phase = p
	return c
}

func (c Controller) partyLabel() string {
	if party, ok := c.roster.Selected(); ok {
		return party.Label()
	}
	return ""
}

// FeedOptionsFor maps a phase to its live-feed treatment. The capture family
// shows the sharp, print-cropped frame; every other phase runs the soft
// attract loop. Presentation derives from phase alone so the two cannot
// drift.
func FeedOptionsFor(p Phase) camera.FeedOptions {
	switch p {
	case PhasePreview, PhasePrepareCapture, PhaseCapturing, PhaseComposing:
		return camera.FeedOptions{Aspect: 3.0 / 2.0, Mirror: true}
	default:
		return camera.FeedOptions{Mirror: true, Blur: 20}
	}
}

// FeedOptions is FeedOptionsFor at the controller's current phase.
func (c Controller) FeedOptions() camera.FeedOptions {
	return FeedOptionsFor(c.phase)
}

// Accessors for the kiosk's views. All are reads of the value; none mutate.

func (c Controller) Phase() Phase             { return c.phase }
func (c Controller) ID() string               { return c.id }
func (c Controller) Now() time.Time           { return c.now }
func (c Controller) Shots() int               { return c.timings.Shots }
func (c Controller) Shot() int                { return c.seq.shot }
func (c Controller) Stage() Stage             { return c.seq.stage }
func (c Controller) Countdown() int           { return c.seq.counter }
func (c Controller) CountdownFrom() int       { return c.timings.CountdownFrom }
func (c Controller) PhotoCount() int          { return len(c.seq.photos) }
func (c Controller) Strip() image.Image       { return c.strip }
func (c Controller) Link() string             { return c.link }
func (c Controller) HasError() bool           { return c.errFlag }
func (c Controller) ErrorText() string        { return c.errText }
func (c Controller) Notice() string           { return c.notice }
func (c Controller) Violations() int          { return c.violations }
func (c Controller) Roster() roster.Roster    { return c.roster }
func (c Controller) Profile() backend.Profile { return c.profile }

// LastPhoto returns the most recent shot, for the review beat.
func (c Controller) LastPhoto() image.Image {
	if len(c.seq.photos) == 0 {
		return nil
	}
	return c.seq.photos[len(c.seq.photos)-1]
}

// Recipients returns a copy of the pending notification list.
func (c Controller) Recipients() []string {
	return append([]string(nil), c.recipients...)
}

// ReadyProgress is the prepare-phase bar.
func (c Controller) ReadyProgress(now time.Time) float64 {
	return c.ready.Progress(now)
}

// StageProgress is the active capture-stage timeline: countdown segment,
// flash white-out, or review hold.
func (c Controller) StageProgress(now time.Time) float64 {
	return c.seq.tl.Progress(now)
}

// UploadProgress is the asymptotic upload bar; it reaches 1 only once the
// real upload has.
func (c Controller) UploadProgress(now time.Time) float64 {
	return c.uploading.Progress(now)
}
