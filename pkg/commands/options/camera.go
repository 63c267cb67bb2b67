// Package options defines shared flag helpers for booth commands.
package options

import (
	"github.com/spf13/cobra"
)

// CameraOptions captures camera selection flags for commands.
type CameraOptions struct {
	Device    string
	Stream    string
	Synthetic bool
}

// AddCameraArgs wires camera-related flags on the provided command.
func AddCameraArgs(cmd *cobra.Command, o *CameraOptions) {
	cmd.Flags().StringVarP(&o.Device, "device", "d", "",
		"V4L2 device path, e.g. /dev/video0.")
	cmd.Flags().StringVar(&o.Stream, "stream", "",
		"MJPEG stream URL. Wins over --device.")
	cmd.Flags().BoolVar(&o.Synthetic, "synthetic", false,
		"Use a generated feed instead of hardware.")
}
