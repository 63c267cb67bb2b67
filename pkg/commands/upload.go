package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/booth/pkg/backend/drive"
	"tableflip.dev/booth/pkg/commands/options"
	"tableflip.dev/booth/pkg/config"
	"tableflip.dev/booth/pkg/runner/upload"
)

func addUpload(topLevel *cobra.Command) {
	ao := &options.ArchiveOptions{}
	bo := &options.BackendOptions{}
	uo := &options.UploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload [session-id]",
		Short: "push archived sessions to the remote backend",
		Example: `
booth upload 2f9c51b0-5b8e-4a31-9c70-9f2d61f8a511
booth upload --all --endpoint https://strips.example.com
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ao.Path != "" {
				cfg.Archive = ao.Path
			}
			applyBackendOptions(cfg, bo)

			if cfg.Backend.Endpoint == "" {
				return errors.New("upload needs an endpoint; set --endpoint or backend.endpoint")
			}

			u := upload.Upload{
				Archive: cfg.Archive,
				All:     uo.All,
				Service: drive.New(drive.Options{
					Endpoint: cfg.Backend.Endpoint,
					Token:    cfg.Backend.Token,
					Instance: cfg.Backend.Instance,
					Folder:   cfg.Backend.Folder,
				}),
			}
			if len(args) == 1 {
				u.ID = args[0]
			}
			return u.Do(context.Background())
		},
	}

	options.AddArchiveArgs(cmd, ao)
	options.AddDriveArgs(cmd, bo)
	options.AddUploadArgs(cmd, uo)

	topLevel.AddCommand(cmd)
}
