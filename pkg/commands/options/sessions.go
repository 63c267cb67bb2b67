package options

import (
	"github.com/spf13/cobra"
)

// SessionsOptions filters the archive listing.
type SessionsOptions struct {
	Since string
}

// AddSessionsArgs wires listing flags on the sessions command.
func AddSessionsArgs(cmd *cobra.Command, o *SessionsOptions) {
	cmd.Flags().StringVar(&o.Since, "since", "",
		"Only sessions newer than this, e.g. 1w or 2d6h.")
}
