// Package sessions lists takes archived by the offline backend.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/backend/local"
	"tableflip.dev/booth/pkg/printers"
	"tableflip.dev/booth/pkg/timeutil"
)

type Sessions struct {
	Archive string
	// Since limits the listing to a recent span, e.g. "1w" or "2d6h".
	Since string
}

func (s *Sessions) Do(ctx context.Context) error {
	if s.Archive == "" {
		return errors.New("can not list sessions, no archive path")
	}

	title := "archive"
	var cutoff time.Time
	if s.Since != "" {
		span, err := timeutil.ParseSpan(s.Since)
		if err != nil {
			return err
		}
		cutoff = time.Now().Add(-span)
		title = fmt.Sprintf("archive (last %s)", timeutil.FormatSpan(span))
	}

	a, err := local.Open(s.Archive, backend.Profile{})
	if err != nil {
		return err
	}
	manifests := a.List(ctx)
	if !cutoff.IsZero() {
		kept := manifests[:0]
		for _, m := range manifests {
			if m.At.After(cutoff) {
				kept = append(kept, m)
			}
		}
		manifests = kept
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.TitleWithCount(title, len(manifests))
	pp.Sessions(manifests...)
	return nil
}
