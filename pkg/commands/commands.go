package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/booth/pkg/commands/options"
	"tableflip.dev/booth/pkg/config"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "booth",
		Short: base.Wrap80("A photo booth that runs in the terminal: countdown, flash, strip, pickup."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addKiosk(topLevel)
	addCameras(topLevel)
	addCompose(topLevel)
	addSessions(topLevel)
	addUpload(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func applyCameraOptions(cfg *config.Config, o *options.CameraOptions) {
	if o.Device != "" {
		cfg.Camera.Device = o.Device
	}
	if o.Stream != "" {
		cfg.Camera.Stream = o.Stream
	}
	if o.Synthetic {
		cfg.Camera.Synthetic = true
	}
}

func applyBackendOptions(cfg *config.Config, o *options.BackendOptions) {
	if o.Kind != "" {
		cfg.Backend.Kind = o.Kind
	}
	if o.Endpoint != "" {
		cfg.Backend.Endpoint = o.Endpoint
	}
	if o.Token != "" {
		cfg.Backend.Token = o.Token
	}
	if o.Folder != "" {
		cfg.Backend.Folder = o.Folder
	}
}
