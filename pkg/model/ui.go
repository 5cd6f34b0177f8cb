// Package model is the top level program: a header with the favorites badge,
// the current page and a help footer.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/byxorna/shelf/pkg/page"
	"github.com/byxorna/shelf/pkg/text"
	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/byxorna/shelf/pkg/ui"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"
)

const (
	headerHeight = 2 // header line and gap
	footerHeight = 2 // gap and short help
)

// ErrMsg surfaces a problem from outside the pages, e.g. the favorites
// watcher. Any key dismisses it.
type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

// Common stuff we'll need to access in all models.
type commonModel struct {
	title  string
	width  int
	height int
	now    func() time.Time
}

type Options struct {
	Deps      page.Deps
	Title     string
	StartPage page.Target
	// StartID is the detail page's identifier when StartPage is DetailTarget.
	StartID v1.ID
	// Changes delivers one value per change the favorites watcher saw. Nil
	// when nothing is watched.
	Changes <-chan struct{}
}

type Model struct {
	common *commonModel
	deps   page.Deps
	keys   keyMap
	help   help.Model

	page page.Page
	// origin is the list page a detail page was opened from.
	origin  page.Target
	changes <-chan struct{}
	err     error
}

func New(opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Shelf"
	}
	if opts.Deps.Logger == nil {
		opts.Deps.Logger = zap.NewNop()
	}
	m := Model{
		common:  &commonModel{title: opts.Title, now: time.Now},
		deps:    opts.Deps,
		keys:    defaultKeyMap(),
		help:    help.NewModel(),
		origin:  page.CatalogTarget,
		changes: opts.Changes,
	}
	m.page = m.newPage(opts.StartPage, opts.StartID)
	return m
}

// Page is the page currently shown.
func (m Model) Page() page.Page { return m.page }

func (m Model) newPage(t page.Target, id v1.ID) page.Page {
	var p page.Page
	switch t {
	case page.FavoritesTarget:
		p = page.NewFavorites(m.deps)
	case page.DetailTarget:
		p = page.NewDetail(m.deps, id)
	default:
		p = page.NewCatalog(m.deps)
	}
	p.SetSize(m.pageSize())
	return p
}

func (m Model) pageSize() (int, int) {
	return m.common.width, m.common.height - headerHeight - footerHeight
}

// open replaces the current page with a fresh load of t.
func (m Model) open(t page.Target, id v1.ID) (Model, tea.Cmd) {
	if cur := m.page.Target(); t == page.DetailTarget && cur != page.DetailTarget {
		m.origin = cur
	}
	m.deps.Logger.Debug("opening page", zap.Stringer("page", t), zap.String("id", id.String()))
	m.page = m.newPage(t, id)
	return m, m.page.Init()
}

func (m Model) reload() (Model, tea.Cmd) {
	var id v1.ID
	if d, ok := m.page.(*page.DetailPage); ok {
		id = d.ID()
	}
	return m.open(m.page.Target(), id)
}

func (m Model) Init() tea.Cmd {
	if m.changes == nil {
		return m.page.Init()
	}
	return tea.Batch(m.page.Init(), waitForFavoritesChange(m.changes))
}

type watchClosedMsg struct{}

// waitForFavoritesChange blocks until the watcher reports a change. The
// router arms it again after every FavoritesChangedMsg.
func waitForFavoritesChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watchClosedMsg{}
		}
		return page.FavoritesChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key dismisses it
	if m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.err = nil
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case ErrMsg:
		m.deps.Logger.Warn("background error", zap.Error(msg.Err))
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.page.Capturing() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			next := page.FavoritesTarget
			switch m.page.Target() {
			case page.FavoritesTarget:
				next = page.CatalogTarget
			case page.DetailTarget:
				next = m.origin
			}
			return m.open(next, "")

		case key.Matches(msg, m.keys.Back):
			if m.page.Target() == page.DetailTarget {
				return m.open(m.origin, "")
			}

		case key.Matches(msg, m.keys.Reload):
			return m.reload()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case page.NavigateMsg:
		return m.open(msg.Target, msg.ID)

	// Every page reloads the favorites on this, whichever one is showing
	case page.FavoritesChangedMsg:
		_, cmd := m.page.Update(msg)
		if m.changes == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, waitForFavoritesChange(m.changes))

	case watchClosedMsg:
		m.deps.Logger.Debug("favorites watcher closed")
		return m, nil

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.help.Width = msg.Width
		m.page.SetSize(m.pageSize())
	}

	_, cmd := m.page.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return errorView(m.err, false)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", m.headerView())
	b.WriteString(m.page.View())

	// fill the gap so the help sits at the bottom
	used := headerHeight + strings.Count(b.String(), "\n") - 1
	if gap := m.common.height - used - footerHeight; gap > 0 {
		b.WriteString(strings.Repeat("\n", gap))
	}
	fmt.Fprintf(&b, "\n\n %s", m.help.View(m.helpKeys()))
	return b.String()
}

func (m Model) helpKeys() helpKeys {
	k := helpKeys{router: m.keys, page: page.DefaultKeyMap(), target: m.page.Target()}
	if l, ok := m.page.(*page.ListPage); ok {
		k.page = l.Keys()
	}
	return k
}

func (m Model) headerView() string {
	books := tab.Render("Books")
	favs := tab.Render("Favorites")
	switch m.page.Target() {
	case page.CatalogTarget:
		books = activeTab.Render("Books")
	case page.FavoritesTarget:
		favs = activeTab.Render("Favorites")
	}

	s := " " + logoView(text.EmojiBooks+" "+m.common.title) + " " +
		books + favs + m.badgeView()
	if status := m.syncView(); status != "" {
		s += divider + status
	}
	if status := m.storageView(); status != "" {
		s += divider + status
	}
	if m.common.width > 0 && ansi.PrintableRuneWidth(s) > m.common.width {
		s = truncate.StringWithTail(s, uint(m.common.width), text.Ellipsis)
	}
	return s
}

// badgeView is the favorites count, read from the store on every render.
func (m Model) badgeView() string {
	return ui.BadgeStyle.Render(fmt.Sprintf("%s %d", text.EmojiFavorite, m.deps.Favorites.Count()))
}

func (m Model) syncView() string {
	c := m.deps.Catalog
	if c == nil {
		return ""
	}
	switch c.Status() {
	case v1.StatusSynchronizing:
		return ui.GrayFg(text.EmojiSync + " loading")
	case v1.StatusError:
		return ui.RedFg("offline")
	case v1.StatusOK:
		return ui.GrayFg("loaded " + text.RelativeTime(c.LastFetched(), m.common.now()))
	}
	return ""
}

// storageView only speaks up when favorites are not reaching their backend.
func (m Model) storageView() string {
	f := m.deps.Favorites
	if f == nil {
		return ""
	}
	switch f.Status() {
	case v1.StatusOffline:
		return ui.GrayFg("favorites saved locally only")
	case v1.StatusError:
		return ui.RedFg(text.EmojiError + " favorites not saved")
	}
	return ""
}
