package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func fourShots() []image.Image {
	return []image.Image{
		solid(color.RGBA{R: 255, A: 255}),
		solid(color.RGBA{G: 255, A: 255}),
		solid(color.RGBA{B: 255, A: 255}),
		solid(color.RGBA{R: 255, G: 255, A: 255}),
	}
}

func TestStripRejectsWrongCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5} {
		photos := make([]image.Image, n)
		for i := range photos {
			photos[i] = solid(color.RGBA{A: 255})
		}
		if _, err := Strip(photos); err != ErrPhotoCount {
			t.Errorf("Strip with %d photos: err = %v, want ErrPhotoCount", n, err)
		}
	}
}

func TestStripRejectsNilPhoto(t *testing.T) {
	photos := fourShots()
	photos[2] = nil
	if _, err := Strip(photos); err != ErrPhotoCount {
		t.Errorf("Strip with nil photo: err = %v, want ErrPhotoCount", err)
	}
}

func TestStripDimensions(t *testing.T) {
	strip, err := Strip(fourShots())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	b := strip.Bounds()
	if b.Dx() != TemplateWidth/3 || b.Dy() != TemplateHeight/3 {
		t.Fatalf("strip is %dx%d, want %dx%d", b.Dx(), b.Dy(), TemplateWidth/3, TemplateHeight/3)
	}
}

func TestStripPlacesShotsInOrder(t *testing.T) {
	strip, err := Strip(fourShots())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}

	// Sample the center of each slot, mapped through the 1/3 downscale.
	wants := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}
	for i, want := range wants {
		cx := (SlotX + SlotWidth/2) / 3
		cy := (SlotY + i*SlotStride + SlotHeight/2) / 3
		got := strip.RGBAAt(cx, cy)
		if got != want {
			t.Errorf("slot %d center = %v, want %v", i, got, want)
		}
	}

	// The border stays template white.
	if got := strip.RGBAAt(2, 2); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("border = %v, want white", got)
	}
}

func TestStripOnPaintsTemplateBorder(t *testing.T) {
	template := solid(color.RGBA{R: 32, G: 64, B: 96, A: 255})
	strip, err := StripOn(template, fourShots())
	if err != nil {
		t.Fatalf("StripOn: %v", err)
	}

	// Border pixels come from the template, slot centers from the shots.
	if got := strip.RGBAAt(2, 2); got != (color.RGBA{R: 32, G: 64, B: 96, A: 255}) {
		t.Errorf("border = %v, want the template color", got)
	}
	cx := (SlotX + SlotWidth/2) / 3
	cy := (SlotY + SlotHeight/2) / 3
	if got := strip.RGBAAt(cx, cy); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("slot 0 center = %v, want the first shot", got)
	}
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, solid(color.RGBA{R: 10, G: 20, B: 30, A: 255})); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	img, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 480 {
		t.Errorf("template bounds = %v, want 640x480", img.Bounds())
	}
}

func TestLoadTemplateMissing(t *testing.T) {
	if _, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected an error for a missing template")
	}
}

func TestStripIsDeterministic(t *testing.T) {
	a, err := Strip(fourShots())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	b, err := Strip(fourShots())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two compositions of the same photos differ")
	}
}

func TestEncodePNGRoundTrips(t *testing.T) {
	strip, err := Strip(fourShots())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, strip); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != strip.Bounds() {
		t.Errorf("decoded bounds %v, want %v", decoded.Bounds(), strip.Bounds())
	}
}

func TestEncodeJPEGWrites(t *testing.T) {
	strip, err := Strip(fourShots())
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, strip, 0); err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("EncodeJPEG wrote nothing")
	}
}
