// Package compose renders four captured photos into the printed-strip
// layout: a tall bordered template with the shots stacked vertically,
// downscaled for distribution.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Template geometry. Each shot lands in a 2000x1333 slot inset 134px from
// the left edge, slots repeating every 1466px down the strip. The finished
// strip is the template scaled to a third.
const (
	TemplateWidth  = 2268
	TemplateHeight = 6000

	SlotWidth  = 2000
	SlotHeight = 1333
	SlotX      = 134
	SlotY      = 134
	SlotStride = 1466

	// SlotCount is fixed by the template; the ritual always takes four.
	SlotCount = 4

	downscale = 3
)

// ErrPhotoCount rejects composition with anything but four photos.
var ErrPhotoCount = errors.New("compose: need exactly 4 photos")

// Strip composites photos into the strip template and returns the
// downscaled result. Photos are resized to fill their slot.
func Strip(photos []image.Image) (*image.RGBA, error) {
	return StripOn(nil, photos)
}

// StripOn composites photos over a template background. A nil template gets
// the plain white strip; anything else is scaled to cover the full canvas
// before the slots are painted, so branded borders print around the shots.
func StripOn(template image.Image, photos []image.Image) (*image.RGBA, error) {
	if len(photos) != SlotCount {
		return nil, ErrPhotoCount
	}
	for _, p := range photos {
		if p == nil {
			return nil, ErrPhotoCount
		}
	}

	canvas := newCanvas(template)
	for i, photo := range photos {
		slot := image.Rect(SlotX, SlotY+i*SlotStride, SlotX+SlotWidth, SlotY+i*SlotStride+SlotHeight)
		draw.CatmullRom.Scale(canvas, slot, photo, photo.Bounds(), draw.Src, nil)
	}

	out := image.NewRGBA(image.Rect(0, 0, TemplateWidth/downscale, TemplateHeight/downscale))
	draw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return out, nil
}

// LoadTemplate reads a template image from disk.
func LoadTemplate(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("compose: open template: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("compose: decode template %s: %w", path, err)
	}
	return img, nil
}

func newCanvas(template image.Image) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, TemplateWidth, TemplateHeight))
	if template == nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		return canvas
	}
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), template, template.Bounds(), draw.Src, nil)
	return canvas
}

// EncodePNG writes img as PNG. Strips and archived shots are stored this way.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeJPEG writes img as JPEG at the given quality (1-100; 0 means 90).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 {
		quality = 90
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
