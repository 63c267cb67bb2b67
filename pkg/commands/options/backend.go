package options

import (
	"github.com/spf13/cobra"
)

// BackendOptions captures distribution backend flags for commands.
type BackendOptions struct {
	Kind     string
	Endpoint string
	Token    string
	Folder   string
}

// AddBackendArgs wires the backend kind selector on the provided command.
func AddBackendArgs(cmd *cobra.Command, o *BackendOptions) {
	cmd.Flags().StringVarP(&o.Kind, "backend", "b", "",
		"Backend kind: drive or local.")
}

// AddDriveArgs registers flags for the remote drive service.
func AddDriveArgs(cmd *cobra.Command, o *BackendOptions) {
	cmd.Flags().StringVar(&o.Endpoint, "endpoint", "",
		"Distribution service URL.")
	cmd.Flags().StringVar(&o.Token, "token", "",
		"Bearer token for the distribution service.")
	cmd.Flags().StringVar(&o.Folder, "folder", "",
		"Remote parent folder session folders are created under.")
}
