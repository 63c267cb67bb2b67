package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/booth/pkg/commands/options"
	"tableflip.dev/booth/pkg/runner/compose"
)

func addCompose(topLevel *cobra.Command) {
	co := &options.ComposeOptions{}

	cmd := &cobra.Command{
		Use:   "compose photo1 photo2 photo3 photo4",
		Short: "compose four photos into a strip",
		Example: `
booth compose 1.png 2.png 3.png 4.png
booth compose shots/*.png --out party.jpg --quality 85
`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := compose.Compose{
				Photos:   args,
				Template: co.Template,
				Out:      co.Out,
				Quality:  co.Quality,
			}
			return c.Do(context.Background())
		},
	}

	options.AddComposeArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
