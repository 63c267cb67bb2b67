package options

import (
	"github.com/spf13/cobra"
)

// ArchiveOptions points commands at the offline archive.
type ArchiveOptions struct {
	Path string
}

// AddArchiveArgs wires the archive path flag on the provided command.
func AddArchiveArgs(cmd *cobra.Command, o *ArchiveOptions) {
	cmd.Flags().StringVarP(&o.Path, "archive", "a", "",
		"Archive directory. Defaults to the configured path.")
}
