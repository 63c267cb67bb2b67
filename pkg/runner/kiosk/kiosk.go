// Package kiosk boots the fullscreen booth: camera, backend, roster, log,
// and the terminal program itself.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"tableflip.dev/booth/pkg/backend"
	"tableflip.dev/booth/pkg/backend/drive"
	"tableflip.dev/booth/pkg/backend/local"
	"tableflip.dev/booth/pkg/camera"
	"tableflip.dev/booth/pkg/compose"
	"tableflip.dev/booth/pkg/config"
	"tableflip.dev/booth/pkg/eventlog"
	ui "tableflip.dev/booth/pkg/kiosk"
	"tableflip.dev/booth/pkg/roster"
	"tableflip.dev/booth/pkg/session"
)

// Kiosk wires the configured camera, backend, and roster into the terminal
// program and blocks until the operator quits.
type Kiosk struct {
	Config *config.Config
}

func (k *Kiosk) Do(ctx context.Context) error {
	if k.Config == nil {
		return errors.New("can not run kiosk, no config")
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return errors.New("kiosk needs a terminal; stdout is not a tty")
	}

	log, err := eventlog.Open(k.Config.Log.Path, k.Config.Log.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	parties, err := roster.LoadFile(k.Config.Parties)
	if err != nil {
		return err
	}

	svc, err := k.service(parties)
	if err != nil {
		return err
	}

	cam, err := camera.Open(ctx, camera.Options{
		Device:    k.Config.Camera.Device,
		Stream:    k.Config.Camera.Stream,
		Synthetic: k.Config.Camera.Synthetic,
		Width:     k.Config.Camera.Width,
		Height:    k.Config.Camera.Height,
		Buffers:   k.Config.Camera.Buffers,
	})
	if err != nil {
		return err
	}
	defer cam.Close()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := camera.Watch(watchCtx)
	if err != nil {
		// Hotplug is a nicety; the kiosk runs without it.
		log.Warn("hotplug watch unavailable", "err", err)
		events = nil
	}

	var template image.Image
	if k.Config.Template != "" {
		template, err = compose.LoadTemplate(k.Config.Template)
		if err != nil {
			// A missing template should not strand the booth at an event;
			// strips fall back to the plain background.
			log.Warn("template unavailable", "path", k.Config.Template, "err", err)
			template = nil
		}
	}

	ctrl := session.New(session.Options{
		Camera:   cam,
		Service:  svc,
		Log:      log,
		Timings:  timings(k.Config.Ritual),
		Roster:   roster.New(parties),
		Template: template,
	})

	log.Info("kiosk starting",
		"camera", cam.Info().Label(),
		"backend", k.Config.Backend.Kind,
		"parties", len(parties))

	termenv.SetWindowTitle("booth")

	return ui.Run(ui.Options{
		Controller: ctrl,
		Camera:     cam,
		Service:    svc,
		Events:     events,
		Log:        log,
	})
}

func (k *Kiosk) service(parties []roster.Party) (backend.Service, error) {
	switch k.Config.Backend.Kind {
	case "drive":
		if k.Config.Backend.Endpoint == "" {
			return nil, errors.New("drive backend needs backend.endpoint")
		}
		return drive.New(drive.Options{
			Endpoint: k.Config.Backend.Endpoint,
			Token:    k.Config.Backend.Token,
			Instance: k.Config.Backend.Instance,
			Folder:   k.Config.Backend.Folder,
		}), nil
	case "local", "":
		return local.Open(k.Config.Archive, backend.Profile{Parties: parties})
	default:
		return nil, fmt.Errorf("unknown backend kind %q", k.Config.Backend.Kind)
	}
}

func timings(r config.Ritual) session.Timings {
	return session.Timings{
		Shots:         r.Shots,
		CountdownFrom: r.CountdownFrom,
		CountdownStep: r.CountdownStep,
		Ready:         r.Ready,
		Flash:         r.Flash,
		Review:        r.Review,
		UploadRamp:    r.UploadRamp,
		UploadCap:     r.UploadCap,
	}
}
