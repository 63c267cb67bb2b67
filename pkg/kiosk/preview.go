package kiosk

import (
	"image"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/image/draw"
)

// Terminal cells are about twice as tall as wide, so drawing two pixel rows
// per cell with the upper half block keeps frames close to square pixels.
const halfBlock = "▀"

var renderProfile = termenv.ColorProfile()

// renderFrame scales img to fit a maxW x maxH cell box and paints it with
// half blocks, one cell per two pixel rows. Returns "" when there is
// nothing to draw.
func renderFrame(img image.Image, maxW, maxH int) string {
	if img == nil || maxW < 1 || maxH < 1 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return ""
	}

	w, h := fitPixels(b.Dx(), b.Dy(), maxW, 2*maxH)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)

	return paintCells(scaled)
}

// renderPixels paints img one pixel per half block with no scaling. QR
// codes stay scannable only when every module maps to whole cells.
func renderPixels(img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return ""
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return paintCells(rgba)
}

// fitPixels shrinks srcW x srcH to fit maxW x maxH preserving aspect.
func fitPixels(srcW, srcH, maxW, maxH int) (int, int) {
	w, h := srcW, srcH
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func paintCells(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := renderProfile.FromColor(img.At(x, y))
			cell := renderProfile.String(halfBlock).Foreground(top)
			if y+1 < b.Max.Y {
				cell = cell.Background(renderProfile.FromColor(img.At(x, y+1)))
			}
			sb.WriteString(cell.String())
		}
	}
	return sb.String()
}
