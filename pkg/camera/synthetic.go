package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// Synthetic renders generated frames so the booth can run end to end with
// no camera attached. Frames animate a sweep bar over a gradient so motion
// is visible in the preview.
type Synthetic struct {
	mu     sync.Mutex
	seq    int
	width  int
	height int
	closed bool
}

func NewSynthetic(width, height int) *Synthetic {
	return &Synthetic{width: width, height: height}
}

func (s *Synthetic) Info() Info {
	return Info{Path: "synthetic", Card: "synthetic feed", Width: s.width, Height: s.height}
}

func (s *Synthetic) PreviewFrame(ctx context.Context) (image.Image, error) {
	return s.next(ctx)
}

func (s *Synthetic) CaptureStill(ctx context.Context) (image.Image, error) {
	return s.next(ctx)
}

func (s *Synthetic) next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &DeviceError{Device: "synthetic", Op: "read", Err: errStreamClosed}
	}
	s.seq++
	return renderTestFrame(s.width, s.height, s.seq), nil
}

func (s *Synthetic) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func renderTestFrame(w, h, seq int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bar := (seq * 4) % w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 96,
				A: 255,
			}
			if dx := x - bar; dx >= 0 && dx < 24 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
