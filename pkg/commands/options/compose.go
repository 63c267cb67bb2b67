package options

import (
	"github.com/spf13/cobra"
)

// ComposeOptions shapes the compose verb's output.
type ComposeOptions struct {
	Template string
	Out      string
	Quality  int
}

// AddComposeArgs wires output flags on the compose command.
func AddComposeArgs(cmd *cobra.Command, o *ComposeOptions) {
	cmd.Flags().StringVarP(&o.Out, "out", "o", "strip.png",
		"Output file. The extension selects PNG or JPEG.")
	cmd.Flags().StringVarP(&o.Template, "template", "t", "",
		"Background image painted behind the slots.")
	cmd.Flags().IntVarP(&o.Quality, "quality", "q", 0,
		"JPEG quality 1-100. Applies when --out is a .jpg.")
}
