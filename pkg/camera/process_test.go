package camera

import (
	"context"
	"image"
	"image/color"
	"testing"
)

func TestProcessZeroValueKeepsFrame(t *testing.T) {
	src := renderTestFrame(64, 48, 1)
	out := Process(src, FeedOptions{})
	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: %v -> %v", src.Bounds(), out.Bounds())
	}
}

func TestProcessCropsToAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	out := Process(src, FeedOptions{Aspect: 2})
	b := out.Bounds()
	if b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("cropped to %dx%d, want 400x200", b.Dx(), b.Dy())
	}

	tall := image.NewRGBA(image.Rect(0, 0, 300, 400))
	out = Process(tall, FeedOptions{Aspect: 1.5})
	b = out.Bounds()
	if b.Dx() != 300 || b.Dy() != 200 {
		t.Fatalf("cropped to %dx%d, want 300x200", b.Dx(), b.Dy())
	}
}

func TestProcessMirrors(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 1))
	red := color.RGBA{R: 255, A: 255}
	src.SetRGBA(0, 0, red)

	out := Process(src, FeedOptions{Mirror: true})
	rgba, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("Process returned %T, want *image.RGBA", out)
	}
	if got := rgba.RGBAAt(9, 0); got != red {
		t.Errorf("mirrored pixel = %v, want %v", got, red)
	}
	if got := rgba.RGBAAt(0, 0); got == red {
		t.Errorf("origin pixel still %v after mirror", got)
	}
}

func TestProcessResizesToWidth(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	out := Process(src, FeedOptions{Width: 100})
	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 75 {
		t.Fatalf("resized to %dx%d, want 100x75", b.Dx(), b.Dy())
	}
}

func TestSoftenKeepsSize(t *testing.T) {
	src := renderTestFrame(64, 48, 7)
	out := Process(src, FeedOptions{Blur: 20})
	b := out.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("blurred to %dx%d, want 64x48", b.Dx(), b.Dy())
	}
}

func TestSyntheticFramesAnimate(t *testing.T) {
	s := NewSynthetic(64, 48)
	defer s.Close()

	a, err := s.PreviewFrame(context.Background())
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	b, err := s.PreviewFrame(context.Background())
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if framesEqual(a.(*image.RGBA), b.(*image.RGBA)) {
		t.Error("consecutive synthetic frames are identical, want motion")
	}
}

func TestSyntheticClosedSourceErrors(t *testing.T) {
	s := NewSynthetic(8, 8)
	s.Close()
	if _, err := s.PreviewFrame(context.Background()); err == nil {
		t.Fatal("Frame after Close returned no error")
	}
}

func TestSyntheticHonorsContext(t *testing.T) {
	s := NewSynthetic(8, 8)
	defer s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.PreviewFrame(ctx); err == nil {
		t.Fatal("Frame with cancelled context returned no error")
	}
}

func framesEqual(a, b *image.RGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
