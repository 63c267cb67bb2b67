package session

import (
	"context"
	"fmt"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/camera"
)

// Async work is bounded so a wedged device or network call cannot hold a
// session hostage forever.
const (
	captureTimeout = 10 * time.Second
	uploadTimeout  = 60 * time.Second
	notifyTimeout  = 30 * time.Second
	profileTimeout = 15 * time.Second
)

// Key is the abstract input surface the controller understands. The kiosk
// maps physical keys onto these.
type Key int

const (
	KeyConfirm Key = iota
	KeyUp
	KeyDown
	KeyCancel
)

func (k Key) String() string {
	switch k {
	case KeyConfirm:
		return "confirm"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// TickMsg advances the controller's timelines. At is the tick's wall-clock
// time so transitions are deterministic under test.
type TickMsg struct {
	At time.Time
}

// Describe renders the tick for logs.
func (m TickMsg) Describe() string {
	return fmt.Sprintf(`at:%q`, m.At.Format(time.RFC3339Nano))
}

// KeyReleasedMsg is a discrete input event, delivered on key release so a
// held key cannot machine-gun transitions.
type KeyReleasedMsg struct {
	Key Key
	At  time.Time
}

// Describe renders the key event for logs.
func (m KeyReleasedMsg) Describe() string {
	return fmt.Sprintf(`key:%q`, m.Key)
}

// KeyReleasedCmd wraps KeyReleasedMsg in a tea.Cmd for callers emitting the
// event as part of an Update result.
func KeyReleasedCmd(key Key, at time.Time) tea.Cmd {
	return func() tea.Msg {
		return KeyReleasedMsg{Key: key, At: at}
	}
}

// CaptureCompletedMsg reports one still-capture result. Session and Shot
// let the controller reject stale or duplicate completions.
type CaptureCompletedMsg struct {
	Session string
	Shot    int
	At      time.Time
	Photo   image.Image
	Err     error
}

// Describe renders the completion for logs.
func (m CaptureCompletedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`session:%q shot:%d err:%q`, m.Session, m.Shot, m.Err)
	}
	return fmt.Sprintf(`session:%q shot:%d`, m.Session, m.Shot)
}

// CaptureCmd runs one blocking still capture off the event loop and
// delivers its single completion message.
func CaptureCmd(src camera.Source, session string, shot int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
		defer cancel()
		photo, err := src.CaptureStill(ctx)
		return CaptureCompletedMsg{Session: session, Shot: shot, At: time.Now(), Photo: photo, Err: err}
	}
}

// UploadCompletedMsg reports the session's one upload attempt.
type UploadCompletedMsg struct {
	Session string
	At      time.Time
	Handle  backend.Handle
	Link    string
	Err     error
}

// Describe renders the completion for logs.
func (m UploadCompletedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`session:%q err:%q`, m.Session, m.Err)
	}
	return fmt.Sprintf(`session:%q strip:%q folder:%q`, m.Session, m.Handle.StripID, m.Handle.FolderID)
}

// NotificationCompletedMsg reports the email dispatch result.
type NotificationCompletedMsg struct {
	Session    string
	At         time.Time
	Recipients int
	Err        error
}

// Describe renders the completion for logs.
func (m NotificationCompletedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`session:%q recipients:%d err:%q`, m.Session, m.Recipients, m.Err)
	}
	return fmt.Sprintf(`session:%q recipients:%d`, m.Session, m.Recipients)
}

// NotifyCmd dispatches the email notification and delivers its single
// completion message.
func NotifyCmd(svc backend.Service, session string, handle backend.Handle, recipients []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		err := svc.Notify(ctx, handle, recipients)
		return NotificationCompletedMsg{Session: session, At: time.Now(), Recipients: len(recipients), Err: err}
	}
}

// ProfileLoadedMsg carries the booth's event profile fetched at startup.
type ProfileLoadedMsg struct {
	Profile backend.Profile
	Err     error
}

// Describe renders the profile load for logs.
func (m ProfileLoadedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`err:%q`, m.Err)
	}
	return fmt.Sprintf(`id:%q event:%q`, m.Profile.ID, m.Profile.Event)
}

// ProfileCmd fetches the remote profile.
func ProfileCmd(svc backend.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), profileTimeout)
		defer cancel()
		profile, err := svc.RemoteProfile(ctx)
		return ProfileLoadedMsg{Profile: profile, Err: err}
	}
}

// RecipientEnteredMsg is emitted by the kiosk's address entry overlay.
type RecipientEnteredMsg struct {
	Address string
}

// Describe renders the entry for logs.
func (m RecipientEnteredMsg) Describe() string {
	return fmt.Sprintf(`address:%q`, m.Address)
}

// RecipientEnteredCmd wraps RecipientEnteredMsg in a tea.Cmd.
func RecipientEnteredCmd(address string) tea.Cmd {
	return func() tea.Msg {
		return RecipientEnteredMsg{Address: address}
	}
}
