package session

import (
	"errors"
	"image"
	"testing"
	"time"

	"tableflip.dev/booth/pkg/backend"
)

func uploaderTake() backend.Take {
	return backend.Take{
		ID:    "s-1",
		At:    time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC),
		Strip: image.NewRGBA(image.Rect(0, 0, 2, 2)),
	}
}

func TestUploaderStartsExactlyOnce(t *testing.T) {
	svc := &fakeService{}
	u := uploader{}

	u, cmd, err := u.start(svc, uploaderTake())
	if err != nil || cmd == nil {
		t.Fatalf("first start: cmd = %v err = %v", cmd, err)
	}
	if !u.expects() {
		t.Fatal("uploader does not expect its own completion")
	}

	if _, _, err := u.start(svc, uploaderTake()); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("second start: err = %v, want ErrUploadInFlight", err)
	}

	// Even after the first completes, the session never uploads twice.
	u = u.finish()
	if u.expects() {
		t.Fatal("finished uploader still expects a completion")
	}
	if _, _, err := u.start(svc, uploaderTake()); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("start after finish: err = %v, want ErrUploadInFlight", err)
	}
}

func TestUploadCmdDeliversOneCompletion(t *testing.T) {
	svc := &fakeService{}
	u := uploader{}

	u, cmd, err := u.start(svc, uploaderTake())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_ = u

	raw := cmd()
	msg, ok := raw.(UploadCompletedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want UploadCompletedMsg", raw)
	}
	if msg.Session != "s-1" || msg.Err != nil {
		t.Fatalf("completion = %+v", msg)
	}
	if msg.Handle.StripID == "" || msg.Link == "" {
		t.Fatalf("completion missing handle or link: %+v", msg)
	}
	if svc.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", svc.uploads)
	}
}

func TestUploadCmdCarriesFailure(t *testing.T) {
	svc := &fakeService{uploadErr: &backend.Error{
		Kind: backend.KindAuth,
		Op:   "upload",
		Err:  errors.New("token expired"),
	}}
	u := uploader{}

	_, cmd, err := u.start(svc, uploaderTake())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	raw := cmd()
	msg, ok := raw.(UploadCompletedMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want UploadCompletedMsg", raw)
	}
	if msg.Err == nil {
		t.Fatal("completion carries no error")
	}
	var berr *backend.Error
	if !errors.As(msg.Err, &berr) || berr.Kind != backend.KindAuth {
		t.Fatalf("completion err = %v, want auth classification", msg.Err)
	}
	if msg.Handle != (backend.Handle{}) || msg.Link != "" {
		t.Fatalf("failed completion still carries a handle: %+v", msg)
	}
}
