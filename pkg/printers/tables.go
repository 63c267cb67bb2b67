package printers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/booth/pkg/backend/local"
	"tableflip.dev/booth/pkg/camera"
	"tableflip.dev/booth/pkg/timeutil"
)

// Cameras renders the attached capture devices as a table.
func (pp *PrettyPrint) Cameras(infos ...camera.Info) {
	if len(infos) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" no cameras attached\n\n")
		return
	}

	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("PATH"), bold.Sprint("CARD"), bold.Sprint("DRIVER"), bold.Sprint("FORMAT"))
	for _, in := range infos {
		tbl.AddRow(in.Path, in.Card, in.Driver, fmt.Sprintf("%dx%d", in.Width, in.Height))
	}

	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")
}

// Sessions renders archived capture sessions, newest first.
func (pp *PrettyPrint) Sessions(manifests ...local.Manifest) {
	if len(manifests) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none yet\n\n")
		return
	}

	bold := color.New(color.Bold)
	now := time.Now()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("SESSION"), bold.Sprint("AGE"), bold.Sprint("PARTY"), bold.Sprint("SHOTS"), bold.Sprint("SENT"))
	for _, m := range manifests {
		party := m.Party
		if party == "" {
			party = "-"
		}
		tbl.AddRow(m.ID, timeutil.Age(m.At, now), party, strconv.Itoa(m.Shots), strconv.Itoa(len(m.Recipients)))
	}
	tbl.RightAlign(1)

	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")
}
