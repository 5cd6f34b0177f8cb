package model

import (
	"fmt"

	"github.com/byxorna/shelf/pkg/ui"
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	divider = lipgloss.NewStyle().
		SetString("•").
		Padding(0, 1).
		Foreground(subtle).
		String()

	tab = lipgloss.NewStyle().
		Foreground(highlight).
		Padding(0, 1)

	activeTab = tab.Copy().
			Bold(true).
			Underline(true)

	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)
)

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		te.String(" ERROR ").
			Foreground(ui.TermColor(ui.Cream)).
			Background(ui.TermColor(ui.Red)).
			String(),
		err,
		ui.Charm.Subtle.Render(exitMsg),
	)
	return dialogBoxStyle.Copy().Align(lipgloss.Center).Render(s)
}

func logoView(title string) string {
	return ui.LogoStyle.Render(title)
}
