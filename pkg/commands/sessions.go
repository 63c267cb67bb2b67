package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/booth/pkg/commands/options"
	"tableflip.dev/booth/pkg/config"
	"tableflip.dev/booth/pkg/runner/sessions"
)

func addSessions(topLevel *cobra.Command) {
	ao := &options.ArchiveOptions{}
	so := &options.SessionsOptions{}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "list sessions in the offline archive",
		Example: `
booth sessions
booth sessions --since 2d
booth sessions --archive /mnt/booth/archive
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ao.Path != "" {
				cfg.Archive = ao.Path
			}

			s := sessions.Sessions{Archive: cfg.Archive, Since: so.Since}
			return s.Do(context.Background())
		},
	}

	options.AddArchiveArgs(cmd, ao)
	options.AddSessionsArgs(cmd, so)

	topLevel.AddCommand(cmd)
}
