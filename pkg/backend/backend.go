// Package backend defines where finished takes go: a distribution service
// receives the composited strip and source photos, then notifies the party
// by email. Implementations live in backend/drive and backend/local.
package backend

import (
	"context"
	"fmt"
	"image"
	"time"

	"tableflip.dev/booth/pkg/roster"
)

// Take is the output of one completed capture ritual.
type Take struct {
	// ID is the session id the take was captured under.
	ID string
	// At is when the ritual finished.
	At time.Time
	// Party is the display label of the group in front of the camera.
	Party string
	// Strip is the composited result.
	Strip image.Image
	// Photos are the individual shots, in capture order.
	Photos []image.Image
}

// Handle identifies an uploaded take on the backend.
type Handle struct {
	StripID  string
	FolderID string
}

// Profile is per-booth data fetched from the distribution service: which
// event this booth is serving, what the welcome screen should say, the
// check-in list, and whether visitors may type in their own addresses.
type Profile struct {
	ID               string         `json:"id"`
	Event            string         `json:"event"`
	Banner           string         `json:"banner"`
	Parties          []roster.Party `json:"parties,omitempty"`
	ManualRecipients bool           `json:"manualRecipients"`
}

// Service distributes takes. Upload and Notify are separate steps so the
// kiosk can collect recipient addresses between them.
type Service interface {
	// Upload stores the take and returns a handle to it. One call per take.
	Upload(ctx context.Context, take Take) (Handle, error)

	// Notify delivers the take to the given addresses.
	Notify(ctx context.Context, handle Handle, recipients []string) error

	// LinkFor returns a shareable URL or path for the uploaded strip,
	// suitable for a QR code.
	LinkFor(handle Handle) string

	// RemoteProfile fetches this booth's event profile.
	RemoteProfile(ctx context.Context) (Profile, error)
}

// Kind classifies a backend failure.
type Kind int

const (
	// KindNetwork covers connection and HTTP-status failures.
	KindNetwork Kind = iota

	// KindAuth covers rejected or missing credentials.
	KindAuth

	// KindEncode covers failures preparing the payload.
	KindEncode

	// KindProtocol covers responses the service should never send.
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindEncode:
		return "encode"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error wraps a backend failure with its classification.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
