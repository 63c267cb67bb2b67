package compose

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tableflip.dev/booth/pkg/compose"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestComposeWritesStrip(t *testing.T) {
	dir := t.TempDir()
	photos := make([]string, 0, compose.SlotCount)
	for i := 0; i < compose.SlotCount; i++ {
		p := filepath.Join(dir, fmt.Sprintf("photo%d.png", i+1))
		writePNG(t, p, 40, 30)
		photos = append(photos, p)
	}

	out := filepath.Join(dir, "strip.png")
	c := Compose{Photos: photos, Out: out}
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do() = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	strip, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if w, h := strip.Bounds().Dx(), strip.Bounds().Dy(); w != compose.TemplateWidth/3 || h != compose.TemplateHeight/3 {
		t.Fatalf("strip is %dx%d, want %dx%d", w, h, compose.TemplateWidth/3, compose.TemplateHeight/3)
	}
}

func TestComposeRejectsWrongCount(t *testing.T) {
	c := Compose{Photos: []string{"only.png"}}
	if err := c.Do(context.Background()); err == nil {
		t.Fatalf("expected an error for the wrong photo count")
	}
}

func TestComposeRejectsUndecodablePhoto(t *testing.T) {
	dir := t.TempDir()
	photos := make([]string, 0, compose.SlotCount)
	for i := 0; i < compose.SlotCount; i++ {
		p := filepath.Join(dir, fmt.Sprintf("photo%d.png", i+1))
		photos = append(photos, p)
		if i == 2 {
			if err := os.WriteFile(p, []byte("not a png"), 0o644); err != nil {
				t.Fatalf("write garbage: %v", err)
			}
			continue
		}
		writePNG(t, p, 8, 8)
	}

	c := Compose{Photos: photos, Out: filepath.Join(dir, "strip.png")}
	if err := c.Do(context.Background()); err == nil {
		t.Fatalf("expected the bad photo to surface")
	}
}
