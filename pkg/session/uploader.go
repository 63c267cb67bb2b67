package session

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/booth/pkg/backend"
)

// ErrUploadInFlight rejects a second upload for a session that already
// started one. This is a programming error, not a runtime condition.
var ErrUploadInFlight = errors.New("session: upload already started")

// uploader enforces the one-upload-per-session rule. It is a value; callers
// keep the returned copy. A fresh session gets a fresh uploader.
type uploader struct {
	started  bool
	inFlight bool
}

// start issues the session's single upload. A second call is rejected
// whether the first is still outstanding or already finished.
func (u uploader) start(svc backend.Service, take backend.Take) (uploader, tea.Cmd, error) {
	if u.started {
		return u, nil, ErrUploadInFlight
	}
	u.started = true
	u.inFlight = true
	return u, uploadCmd(svc, take), nil
}

// expects reports whether an upload completion is the outstanding one.
func (u uploader) expects() bool {
	return u.started && u.inFlight
}

// finish marks the outstanding upload delivered.
func (u uploader) finish() uploader {
	u.inFlight = false
	return u
}

// uploadCmd runs the upload off the event loop and delivers its single
// completion message. There is no retry here or anywhere above.
func uploadCmd(svc backend.Service, take backend.Take) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()
		handle, err := svc.Upload(ctx, take)
		msg := UploadCompletedMsg{Session: take.ID, At: time.Now(), Err: err}
		if err == nil {
			msg.Handle = handle
			msg.Link = svc.LinkFor(handle)
		}
		return msg
	}
}
