// Package camera opens live frame sources for the booth: V4L2 devices,
// MJPEG network streams, and a synthetic feed for running without hardware.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sort"
)

// Source delivers live frames. PreviewFrame feeds the 30 Hz live view;
// CaptureStill takes the full-resolution shot for the strip. Both block
// until a frame is ready, the context ends, or the source fails. One
// streaming handle serves both so the feed never drops mid-ritual.
type Source interface {
	Info() Info
	PreviewFrame(ctx context.Context) (image.Image, error)
	CaptureStill(ctx context.Context) (image.Image, error)
	Close() error
}

// Info describes an open or enumerated source.
type Info struct {
	Path   string
	Card   string
	Driver string
	Width  int
	Height int
}

func (i Info) Label() string {
	if i.Card != "" {
		return i.Card
	}
	return i.Path
}

// Options selects which source Open builds.
type Options struct {
	// Device is a V4L2 path, e.g. /dev/video0.
	Device string
	// Stream is an MJPEG-over-HTTP URL. When set it wins over Device.
	Stream string
	// Synthetic swaps in a generated feed and wins over both.
	Synthetic bool
	Width     int
	Height    int
	Buffers   int
}

// Open builds a Source from opts. The returned source is already streaming.
func Open(ctx context.Context, opts Options) (Source, error) {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Buffers <= 0 {
		opts.Buffers = 2
	}
	switch {
	case opts.Synthetic:
		return NewSynthetic(opts.Width, opts.Height), nil
	case opts.Stream != "":
		return OpenStream(ctx, opts.Stream)
	default:
		return OpenDevice(opts.Device, opts)
	}
}

var (
	errStreamClosed = errors.New("stream closed")
	errFrameTimeout = errors.New("frame timeout")
)

// DeviceError wraps a source failure with enough context to show on the
// kiosk and in the log.
type DeviceError struct {
	Device string
	Op     string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera %s: %s: %v", e.Device, e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Enumerate lists V4L2 capture devices found under /dev. Devices that fail
// to open are skipped; hotplug churn leaves half-initialized nodes behind.
func Enumerate() ([]Info, error) {
	paths, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, fmt.Errorf("camera: scan devices: %w", err)
	}
	sort.Strings(paths)
	infos := make([]Info, 0, len(paths))
	for _, path := range paths {
		info, err := probe(path)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}
