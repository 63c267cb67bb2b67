package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

type mjpegSource struct {
	url    string
	cancel context.CancelFunc
	body   io.Closer
	frames chan image.Image
	errs   chan error
	info   Info
}

// OpenStream connects to an MJPEG-over-HTTP stream (multipart/x-mixed-replace)
// and starts reading it. ctx bounds the dial; the stream itself runs until
// Close.
func OpenStream(ctx context.Context, url string) (Source, error) {
	streamCtx, cancel := context.WithCancel(context.Background())

	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, &DeviceError{Device: url, Op: "request", Err: err}
	}
	req.Header.Set("Accept", "multipart/x-mixed-replace")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, &DeviceError{Device: url, Op: "connect", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, &DeviceError{Device: url, Op: "connect", Err: fmt.Errorf("status %s", resp.Status)}
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		resp.Body.Close()
		cancel()
		return nil, &DeviceError{Device: url, Op: "connect", Err: fmt.Errorf("not an MJPEG stream: %s", resp.Header.Get("Content-Type"))}
	}

	s := &mjpegSource{
		url:    url,
		cancel: cancel,
		body:   resp.Body,
		frames: make(chan image.Image, 1),
		errs:   make(chan error, 1),
		info:   Info{Path: url, Card: "network stream"},
	}
	go s.read(multipart.NewReader(resp.Body, params["boundary"]))
	return s, nil
}

// read decodes parts into the frame mailbox, keeping only the latest frame
// when the consumer falls behind.
func (s *mjpegSource) read(mr *multipart.Reader) {
	defer close(s.frames)
	var buf bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err != nil {
			s.fail(err)
			return
		}
		buf.Reset()
		_, err = io.Copy(&buf, part)
		part.Close()
		if err != nil {
			s.fail(err)
			return
		}
		img, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			// Torn frame; the next part usually decodes fine.
			continue
		}
		select {
		case s.frames <- img:
		default:
			// Sole producer: after the drain the mailbox is empty.
			select {
			case <-s.frames:
			default:
			}
			s.frames <- img
		}
	}
}

func (s *mjpegSource) fail(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

func (s *mjpegSource) Info() Info { return s.info }

func (s *mjpegSource) PreviewFrame(ctx context.Context) (image.Image, error) {
	return s.next(ctx)
}

func (s *mjpegSource) CaptureStill(ctx context.Context) (image.Image, error) {
	return s.next(ctx)
}

func (s *mjpegSource) next(ctx context.Context) (image.Image, error) {
	timer := time.NewTimer(frameTimeout)
	defer timer.Stop()

	select {
	case img, ok := <-s.frames:
		if !ok {
			select {
			case err := <-s.errs:
				return nil, &DeviceError{Device: s.url, Op: "read", Err: err}
			default:
				return nil, &DeviceError{Device: s.url, Op: "read", Err: errStreamClosed}
			}
		}
		return img, nil
	case <-timer.C:
		return nil, &DeviceError{Device: s.url, Op: "read", Err: errFrameTimeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *mjpegSource) Close() error {
	s.cancel()
	return s.body.Close()
}
