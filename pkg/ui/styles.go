// Package ui holds the color palette shared by every page.
package ui

import (
	lib "github.com/charmbracelet/charm/ui/common"
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"
)

type StyleFunc func(string) string

var (
	// Charm holds the charm TUI styles; shelf borrows its subtle and error
	// text so dialogs look like the rest of the charm tools.
	Charm = lib.DefaultStyles()

	Cream       = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	Fuchsia     = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	YellowGreen = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}
	Red         = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	Normal      = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}

	// Row colors
	RowSecondaryFocused   = DullFuchsiaFg
	RowSecondaryUnfocused = BrightGrayFg

	NormalFg     = NewFgStyle(Normal)
	DimNormalFg  = NewFgStyle(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"})
	BrightGrayFg = NewFgStyle(lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#979797"})
	GrayFg       = NewFgStyle(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"})
	MidGrayFg    = NewFgStyle(lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"})

	GreenFg       = NewFgStyle(lipgloss.Color("#04B575"))
	DullFuchsiaFg = NewFgStyle(lipgloss.AdaptiveColor{Light: "#F793FF", Dark: "#AD58B4"})
	RedFg         = NewFgStyle(Red)

	// FuchsiaTerm and NormalTerm are raw termenv styles for search hits,
	// which underline single runes inside an otherwise plain title.
	FuchsiaTerm = te.Style{}.Foreground(TermColor(Fuchsia))
	NormalTerm  = te.Style{}.Foreground(TermColor(Normal))

	LogoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Background(lipgloss.Color("#ED567A")).
			Bold(true).
			Padding(0, 1)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#6124DF")).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}).
			Background(lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"})
)

// NewFgStyle returns a style func with foreground options only.
func NewFgStyle(c lipgloss.TerminalColor) StyleFunc {
	return lipgloss.NewStyle().Foreground(c).Render
}

// TermColor resolves an adaptive color against the terminal background.
func TermColor(c lipgloss.AdaptiveColor) te.Color {
	if lipgloss.HasDarkBackground() {
		return te.ColorProfile().Color(c.Dark)
	}
	return te.ColorProfile().Color(c.Light)
}
