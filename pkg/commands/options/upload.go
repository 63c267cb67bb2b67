package options

import (
	"github.com/spf13/cobra"
)

// UploadOptions selects which archived sessions to push.
type UploadOptions struct {
	All bool
}

// AddUploadArgs wires the selection flags on the upload command.
func AddUploadArgs(cmd *cobra.Command, o *UploadOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Upload every archived session.")
}
