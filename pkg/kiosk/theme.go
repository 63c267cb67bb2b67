package kiosk

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the kiosk surface.
type Theme struct {
	Banner  BannerTheme
	Stage   StageTheme
	Gate    GateTheme
	Deliver DeliverTheme
	Debug   DebugTheme
}

// BannerTheme styles the top bar shown in every phase.
type BannerTheme struct {
	Event  lipgloss.Style
	Phase  lipgloss.Style
	Error  lipgloss.Style
	Notice lipgloss.Style
	Hint   lipgloss.Style
}

// StageTheme styles the capture ritual: the big digits, the flash wash, and
// the review frame.
type StageTheme struct {
	Digit     lipgloss.Style
	Flash     lipgloss.Style
	ShotCount lipgloss.Style
	Frame     lipgloss.Style
}

// GateTheme styles the check-in screen.
type GateTheme struct {
	Title lipgloss.Style
	Frame lipgloss.Style
}

// DeliverTheme styles upload, distribution, and notify screens.
type DeliverTheme struct {
	Link      lipgloss.Style
	LinkFrame lipgloss.Style
	Recipient lipgloss.Style
	Prompt    lipgloss.Style
}

// DebugTheme styles the ctrl+e event overlay.
type DebugTheme struct {
	Frame  lipgloss.Style
	Header lipgloss.Style
	Line   lipgloss.Style
}

// Default returns the stock kiosk theme.
func Default() Theme {
	return Theme{
		Banner: BannerTheme{
			Event:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Phase:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F")),
			Notice: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FFF87")),
			Hint:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
		Stage: StageTheme{
			Digit:     lipgloss.NewStyle().Bold(true),
			Flash:     lipgloss.NewStyle().Reverse(true).Bold(true),
			ShotCount: lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
			Frame:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		},
		Gate: GateTheme{
			Title: lipgloss.NewStyle().Bold(true).Underline(true),
			Frame: lipgloss.NewStyle().Padding(1, 2),
		},
		Deliver: DeliverTheme{
			Link:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
			LinkFrame: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 2),
			Recipient: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		},
		Debug: DebugTheme{
			Frame:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
			Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
			Line:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		},
	}
}

var (
	countdownStart, _ = colorful.Hex("#5FFF87") // green at 3
	countdownEnd, _   = colorful.Hex("#FF5F5F") // red at the shutter
)

// CountdownColor blends the digit color across the whole count, green when
// the count begins and red at the shutter edge. t runs [0,1] over the count.
func CountdownColor(t float64) color.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return lipgloss.Color(countdownStart.BlendLuv(countdownEnd, t).Hex())
}
