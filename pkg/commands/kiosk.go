package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/booth/pkg/commands/options"
	"tableflip.dev/booth/pkg/config"
	"tableflip.dev/booth/pkg/runner/kiosk"
)

func addKiosk(topLevel *cobra.Command) {
	co := &options.CameraOptions{}
	bo := &options.BackendOptions{}

	cmd := &cobra.Command{
		Use:   "kiosk",
		Short: "run the fullscreen booth",
		Example: `
booth kiosk
booth kiosk --synthetic --backend local
booth kiosk --device /dev/video2 --backend drive --endpoint https://strips.example.com
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyCameraOptions(cfg, co)
			applyBackendOptions(cfg, bo)

			k := kiosk.Kiosk{Config: cfg}
			return k.Do(context.Background())
		},
	}

	options.AddCameraArgs(cmd, co)
	options.AddBackendArgs(cmd, bo)
	options.AddDriveArgs(cmd, bo)

	topLevel.AddCommand(cmd)
}
