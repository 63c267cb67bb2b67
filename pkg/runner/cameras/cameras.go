// Package cameras lists the capture devices the booth could open.
package cameras

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/booth/pkg/camera"
	"tableflip.dev/booth/pkg/printers"
)

// Cameras prints a table of attached capture devices.
type Cameras struct{}

func (c *Cameras) Do(ctx context.Context) error {
	infos, err := camera.Enumerate()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(color.Output, "")

	pp := printers.PrettyPrint{}
	pp.Cameras(infos...)
	return nil
}
