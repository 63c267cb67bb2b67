package camera

import (
	"image"

	"golang.org/x/image/draw"
)

// FeedOptions shape a raw frame for display or capture: center-crop to an
// aspect ratio, mirror, soften, and resize. The zero value passes frames
// through untouched.
type FeedOptions struct {
	// Aspect is width/height; 0 keeps the native aspect.
	Aspect float64
	// Mirror flips horizontally so the feed behaves like a mirror.
	Mirror bool
	// Blur softens the frame. 0 or 1 is off; larger is softer.
	Blur float64
	// Width scales the result to this width (aspect preserved); 0 keeps size.
	Width int
}

// Process applies opts in order: crop, mirror, blur, resize.
func Process(img image.Image, opts FeedOptions) image.Image {
	out := toRGBA(img)
	if opts.Aspect > 0 {
		out = cropAspect(out, opts.Aspect)
	}
	if opts.Mirror {
		out = mirror(out)
	}
	if opts.Blur > 1 {
		out = soften(out, opts.Blur)
	}
	if opts.Width > 0 && opts.Width != out.Bounds().Dx() {
		h := out.Bounds().Dy() * opts.Width / out.Bounds().Dx()
		out = resize(out, opts.Width, h, draw.ApproxBiLinear)
	}
	return out
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(out, image.Point{}, img, b, draw.Src, nil)
	return out
}

// cropAspect takes the largest centered window with the given aspect.
func cropAspect(img *image.RGBA, aspect float64) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	cw, ch := w, int(float64(w)/aspect)
	if ch > h {
		ch = h
		cw = int(float64(h) * aspect)
	}
	x0 := b.Min.X + (w-cw)/2
	y0 := b.Min.Y + (h-ch)/2

	out := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Copy(out, image.Point{}, img, image.Rect(x0, y0, x0+cw, y0+ch), draw.Src, nil)
	return out
}

func mirror(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcOff := img.PixOffset(b.Min.X, b.Min.Y+y)
		dstOff := out.PixOffset(0, y)
		for x := 0; x < w; x++ {
			s := srcOff + x*4
			d := dstOff + (w-1-x)*4
			copy(out.Pix[d:d+4], img.Pix[s:s+4])
		}
	}
	return out
}

// soften approximates a gaussian blur by scaling down by the blur factor
// and back up bilinearly. Heavy blurs only feed the idle preview, so the
// approximation is plenty.
func soften(img *image.RGBA, blur float64) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	sw, sh := int(float64(w)/blur), int(float64(h)/blur)
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	small := resize(img, sw, sh, draw.ApproxBiLinear)
	return resize(small, w, h, draw.ApproxBiLinear)
}

func resize(img *image.RGBA, w, h int, scaler draw.Scaler) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}
