// Package upload pushes archived takes through a remote distribution
// service. It exists for booths that ran offline: takes land in the local
// archive, and an operator pushes them after the event. Recipients recorded
// in a manifest get their notification on the way through.
package upload

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/backend/local"
	"tableflip.dev/booth/pkg/printers"
)

type Upload struct {
	Archive string
	// ID selects one archived session. Empty plus All pushes everything.
	ID      string
	All     bool
	Service backend.Service
}

// Do uploads the selected takes. A failure stops the run; nothing is retried
// automatically.
func (u *Upload) Do(ctx context.Context) error {
	if u.Archive == "" {
		return errors.New("can not upload, no archive path")
	}
	if u.Service == nil {
		return errors.New("can not upload, no backend service")
	}
	if u.ID == "" && !u.All {
		return errors.New("need a session id or --all")
	}

	a, err := local.Open(u.Archive, backend.Profile{})
	if err != nil {
		return err
	}

	manifests := a.List(ctx)
	if u.ID != "" {
		found := false
		for _, m := range manifests {
			if m.ID == u.ID {
				manifests = []local.Manifest{m}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no archived session %s", u.ID)
		}
	}
	if len(manifests) == 0 {
		return errors.New("archive is empty")
	}

	pp := printers.PrettyPrint{}
	pp.NewLine()

	for _, m := range manifests {
		take, err := a.LoadTake(m.ID)
		if err != nil {
			return err
		}
		handle, err := u.Service.Upload(ctx, take)
		if err != nil {
			return fmt.Errorf("upload %s: %w", m.ID, err)
		}
		if len(m.Recipients) > 0 {
			if err := u.Service.Notify(ctx, handle, m.Recipients); err != nil {
				return fmt.Errorf("notify %s: %w", m.ID, err)
			}
		}
		pp.Uploaded(m.ID, u.Service.LinkFor(handle))
	}

	pp.NewLine()
	return nil
}
