package page

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings a page reacts to. It satisfies help.KeyMap.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding
	Favorite key.Binding
	Search   key.Binding
	Accept   key.Binding
	Cancel   key.Binding
	Facet    key.Binding
	FacetRev key.Binding
	Reset    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Favorite, k.Search, k.Facet}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.Favorite},
		{k.Search, k.Facet, k.FacetRev, k.Reset},
	}
}

// DefaultKeyMap returns a default set of keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "details"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f", " "),
			key.WithHelp("f", "favorite"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop searching"),
		),
		Facet: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next publisher"),
		),
		FacetRev: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "previous publisher"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
	}
}
