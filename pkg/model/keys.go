package model

import (
	"github.com/byxorna/shelf/pkg/page"
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the bindings handled above the current page.
type keyMap struct {
	Switch key.Binding
	Back   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Switch: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "books/favorites"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpKeys merges the router bindings with the ones of the current page so a
// single help.Model can render them.
type helpKeys struct {
	router keyMap
	page   page.KeyMap
	target page.Target
}

func (k helpKeys) ShortHelp() []key.Binding {
	if k.target == page.DetailTarget {
		return []key.Binding{k.page.Favorite, k.router.Back, k.router.Reload, k.router.Help, k.router.Quit}
	}
	return append(k.page.ShortHelp(), k.router.Switch, k.router.Help, k.router.Quit)
}

func (k helpKeys) FullHelp() [][]key.Binding {
	app := []key.Binding{k.router.Switch, k.router.Back, k.router.Reload, k.router.Help, k.router.Quit}
	if k.target == page.DetailTarget {
		return [][]key.Binding{
			{k.page.Up, k.page.Down, k.page.Top, k.page.Bottom},
			{k.page.Favorite},
			app,
		}
	}
	return append(k.page.FullHelp(), app)
}
