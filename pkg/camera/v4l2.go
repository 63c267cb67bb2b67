package camera

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"time"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
)

// frameTimeout bounds how long we wait on the driver for a single frame
// before declaring the device wedged.
const frameTimeout = 2 * time.Second

type v4l2Source struct {
	dev    *device.Device
	frames <-chan []byte
	cancel context.CancelFunc
	info   Info
}

// OpenDevice opens and starts a V4L2 device streaming MJPEG at the
// requested size. The device keeps streaming until Close.
func OpenDevice(path string, opts Options) (Source, error) {
	dev, err := device.Open(
		path,
		device.WithBufferSize(uint32(opts.Buffers)),
		device.WithPixFormat(v4l2.PixFormat{
			PixelFormat: v4l2.PixelFmtMJPEG,
			Width:       uint32(opts.Width),
			Height:      uint32(opts.Height),
		}),
	)
	if err != nil {
		return nil, &DeviceError{Device: path, Op: "open", Err: err}
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	if err := dev.Start(streamCtx); err != nil {
		cancel()
		_ = dev.Close()
		return nil, &DeviceError{Device: path, Op: "start", Err: err}
	}

	caps := dev.Capability()
	return &v4l2Source{
		dev:    dev,
		frames: dev.GetOutput(),
		cancel: cancel,
		info: Info{
			Path:   path,
			Card:   caps.Card,
			Driver: caps.Driver,
			Width:  opts.Width,
			Height: opts.Height,
		},
	}, nil
}

func (s *v4l2Source) Info() Info { return s.info }

func (s *v4l2Source) PreviewFrame(ctx context.Context) (image.Image, error) {
	return s.next(ctx)
}

// CaptureStill reads from the same stream; the device runs at capture
// resolution and the preview downscales, so the handle never gets reopened
// mid-ritual.
func (s *v4l2Source) CaptureStill(ctx context.Context) (image.Image, error) {
	return s.next(ctx)
}

func (s *v4l2Source) next(ctx context.Context) (image.Image, error) {
	timer := time.NewTimer(frameTimeout)
	defer timer.Stop()

	select {
	case raw, ok := <-s.frames:
		if !ok {
			return nil, &DeviceError{Device: s.info.Path, Op: "read", Err: errStreamClosed}
		}
		// The driver recycles frame buffers; copy before decoding.
		buf := make([]byte, len(raw))
		copy(buf, raw)
		img, err := jpeg.Decode(bytes.NewReader(buf))
		if err != nil {
			return nil, &DeviceError{Device: s.info.Path, Op: "decode", Err: err}
		}
		return img, nil
	case <-timer.C:
		return nil, &DeviceError{Device: s.info.Path, Op: "read", Err: errFrameTimeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *v4l2Source) Close() error {
	s.cancel()
	return s.dev.Close()
}

// probe opens a device just long enough to read its capability block.
func probe(path string) (Info, error) {
	dev, err := device.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer dev.Close()
	caps := dev.Capability()
	return Info{Path: path, Card: caps.Card, Driver: caps.Driver}, nil
}
