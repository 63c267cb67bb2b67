// Package compose builds a strip from photo files on disk. It is the
// compositor exposed as a dev tool; the kiosk runs the same geometry on
// captured frames.
package compose

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/booth/pkg/compose"
)

type Compose struct {
	// Photos are the input files, top slot first.
	Photos []string
	// Template is an optional background image file.
	Template string
	// Out is the output file. The extension picks the encoding.
	Out string
	// Quality applies to JPEG output. Zero means the encoder default.
	Quality int
}

func (c *Compose) Do(ctx context.Context) error {
	if len(c.Photos) != compose.SlotCount {
		return fmt.Errorf("need exactly %d photos, got %d", compose.SlotCount, len(c.Photos))
	}

	var template image.Image
	if c.Template != "" {
		var err error
		template, err = compose.LoadTemplate(c.Template)
		if err != nil {
			return err
		}
	}

	photos := make([]image.Image, 0, len(c.Photos))
	for _, path := range c.Photos {
		img, err := decode(path)
		if err != nil {
			return err
		}
		photos = append(photos, img)
	}

	strip, err := compose.StripOn(template, photos)
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = "strip.png"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".jpg", ".jpeg":
		err = compose.EncodeJPEG(f, strip, c.Quality)
	default:
		err = compose.EncodePNG(f, strip)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	g := color.New(color.FgHiGreen)
	_, _ = g.Print("✓ ")
	_, _ = fmt.Fprintf(color.Output, "%s (%dx%d)\n", out, strip.Bounds().Dx(), strip.Bounds().Dy())
	return nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
