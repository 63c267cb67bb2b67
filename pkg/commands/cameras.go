package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/booth/pkg/runner/cameras"
)

func addCameras(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cameras",
		Short: "list attached capture devices",
		Example: `
booth cameras
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cameras.Cameras{}
			return c.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
