package printers

import (
	"fmt"

	"github.com/fatih/color"
)

type PrettyPrint struct{}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" session")
	default:
		_, _ = c.Println(" sessions")
	}
}

// Uploaded confirms a strip reached the backend and where it can be picked up.
func (pp *PrettyPrint) Uploaded(id, link string) {
	g := color.New(color.FgHiGreen)
	t := color.New()
	f := color.New(color.Faint)

	_, _ = g.Print("✓ ")
	_, _ = t.Printf("%s uploaded\n", id)
	if link != "" {
		_, _ = f.Printf("  %s\n", link)
	}
}
