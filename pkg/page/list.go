package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byxorna/shelf/pkg/catalog"
	"github.com/byxorna/shelf/pkg/filter"
	"github.com/byxorna/shelf/pkg/text"
	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/byxorna/shelf/pkg/ui"
	"github.com/byxorna/shelf/pkg/view"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"go.uber.org/zap"
)

const (
	searchCharacterLimit = 128
	listViewTopPadding   = 4 // filter line, gaps
	listViewBottomPad    = 3 // count line, gaps
	listHorizontalPad    = 4

	catalogUnavailableText = "Failed to load books. Make sure the API server is running."
)

var (
	dividerDot  = ui.MidGrayFg(" • ")
	promptStyle = ui.NewFgStyle(ui.YellowGreen)
)

// listState is the lifecycle of one list page load.
type listState int

const (
	listStateLoading listState = iota
	listStateReady
	listStateError
)

func (s listState) String() string {
	return map[listState]string{
		listStateLoading: "loading",
		listStateReady:   "ready",
		listStateError:   "error",
	}[s]
}

type catalogFetchedMsg struct {
	load  uint64
	books []v1.Book
	err   error
}

// ListPage is the controller for both list pages. The favorites variant
// scopes the derived view to the favorite set and removes instead of
// toggling.
type ListPage struct {
	deps   Deps
	target Target
	keys   KeyMap
	load   uint64

	state    listState
	err      error
	catalog  []v1.Book
	favs     v1.FavoriteSet
	criteria v1.FilterCriteria
	facets   []string
	facet    int

	projector *view.Projector
	search    textinput.Model
	spinner   spinner.Model

	showStatusMessage bool
	statusMessage     statusMessage

	width, height int
}

// NewCatalog builds the full catalog page.
func NewCatalog(deps Deps) *ListPage {
	return newListPage(deps, CatalogTarget, view.Options{
		Placeholder: "No books found.",
		CountFormat: "%s Books displayed",
	})
}

// NewFavorites builds the favorites only page.
func NewFavorites(deps Deps) *ListPage {
	return newListPage(deps, FavoritesTarget, view.Options{
		Placeholder: "No favorite books found.",
		CountFormat: "%s Favorites on your list",
	})
}

func newListPage(deps Deps, target Target, opts view.Options) *ListPage {
	sp := spinner.NewModel()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	si := textinput.NewModel()
	si.Prompt = promptStyle("Search: ")
	si.Placeholder = "title"
	si.CursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	si.CharLimit = searchCharacterLimit

	p := &ListPage{
		deps:      deps,
		target:    target,
		keys:      DefaultKeyMap(),
		load:      nextLoad(),
		favs:      v1.NewFavoriteSet(),
		criteria:  v1.DefaultCriteria(),
		facets:    []string{v1.AnyPublisher},
		projector: view.New(opts),
		search:    si,
		spinner:   sp,
	}
	p.projector.Bind(view.Handlers{
		OnToggle: p.toggle,
		OnDetail: p.openDetail,
	})
	return p
}

func (p *ListPage) Target() Target  { return p.target }
func (p *ListPage) Capturing() bool { return p.search.Focused() }
func (p *ListPage) Keys() KeyMap    { return p.keys }

func (p *ListPage) scoped() bool { return p.target == FavoritesTarget }

// Criteria returns the current search and facet selection.
func (p *ListPage) Criteria() v1.FilterCriteria { return p.criteria }

// Projector exposes the rendered rows.
func (p *ListPage) Projector() *view.Projector { return p.projector }

// Err is the error that put the page into its error state, if any.
func (p *ListPage) Err() error { return p.err }

func (p *ListPage) Loading() bool { return p.state == listStateLoading }

func (p *ListPage) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.search.Width = width - listHorizontalPad*2 - ansi.PrintableRuneWidth(p.search.Prompt)
}

// Init loads the favorite set and, unless this is the favorites page with
// nothing on it, fetches the catalog.
func (p *ListPage) Init() tea.Cmd {
	p.favs = p.deps.Favorites.Load()
	if p.scoped() && p.favs.Len() == 0 {
		p.deps.logger().Debug("no favorites, skipping catalog fetch")
		p.ready(nil)
		return nil
	}
	return p.fetch()
}

func (p *ListPage) fetch() tea.Cmd {
	p.state = listStateLoading
	p.spinner.Start()
	load := p.load
	store := p.deps.Catalog
	ctx := p.deps.ctx()
	return tea.Batch(spinner.Tick, func() tea.Msg {
		books, err := store.FetchAll(ctx)
		return catalogFetchedMsg{load: load, books: books, err: err}
	})
}

// ready adopts a freshly fetched catalog with default criteria.
func (p *ListPage) ready(books []v1.Book) {
	p.state = listStateReady
	p.err = nil
	p.spinner.Finish()
	p.catalog = books
	p.criteria = v1.DefaultCriteria()
	p.search.Reset()
	p.facet = 0
	p.refreshFacets()
	p.derive()
}

// refreshFacets recomputes the publisher options, keeping the selected facet
// when it still exists.
func (p *ListPage) refreshFacets() {
	source := p.catalog
	if p.scoped() {
		source = filter.Scope(p.catalog, p.favs)
	}
	p.facets = filter.FacetOptions(source)

	p.facet = 0
	for i, f := range p.facets {
		if f == p.criteria.PublisherFacet {
			p.facet = i
			break
		}
	}
	p.criteria.PublisherFacet = p.facets[p.facet]
}

// derive recomputes the view from the current catalog, criteria and favorites
// and replaces every rendered row.
func (p *ListPage) derive() {
	var scope *v1.FavoriteSet
	if p.scoped() {
		scope = &p.favs
	}
	p.projector.Render(filter.Derive(p.catalog, p.criteria, scope), p.favs)
}

// toggle is bound to the row favorite control.
func (p *ListPage) toggle(id v1.ID) tea.Cmd {
	var (
		wasFavorite = p.favs.Contains(id)
		title       = p.titleOf(id)
	)
	if p.scoped() {
		p.favs = p.deps.Favorites.Remove(id)
		p.refreshFacets()
	} else {
		p.favs = p.deps.Favorites.Toggle(id)
	}
	p.derive()

	if err := p.deps.Favorites.LastWriteErr(); err != nil {
		return p.newStatusMessage(statusMessage{subtleStatusMessage, "Favorites not saved: " + err.Error()})
	}
	if wasFavorite {
		return p.newStatusMessage(statusMessage{normalStatusMessage, fmt.Sprintf("Removed “%s” from favorites", title)})
	}
	return p.newStatusMessage(statusMessage{normalStatusMessage, fmt.Sprintf("Added “%s” to favorites", title)})
}

func (p *ListPage) openDetail(id v1.ID) tea.Cmd {
	return navigateCmd(DetailTarget, id)
}

func (p *ListPage) titleOf(id v1.ID) string {
	for _, b := range p.catalog {
		if b.ID == id {
			return b.Title
		}
	}
	return id.String()
}

func (p *ListPage) newStatusMessage(sm statusMessage) tea.Cmd {
	p.showStatusMessage = true
	p.statusMessage = sm
	return waitForStatusMessageTimeout(p.load)
}

func (p *ListPage) hideStatusMessage() {
	p.showStatusMessage = false
	p.statusMessage = statusMessage{}
}

func (p *ListPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return p, p.update(msg)
}

func (p *ListPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case catalogFetchedMsg:
		if msg.load != p.load {
			return nil
		}
		if msg.err != nil {
			p.state = listStateError
			p.err = msg.err
			p.spinner.Finish()
			p.deps.logger().Warn("catalog page load failed",
				zap.Stringer("page", p.target),
				zap.Bool("unavailable", errors.Is(msg.err, catalog.ErrCatalogUnavailable)),
				zap.Error(msg.err))
			return nil
		}
		p.ready(msg.books)
		return nil

	case FavoritesChangedMsg:
		return p.favoritesChanged()

	case spinner.TickMsg:
		if p.state != listStateLoading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case statusMessageTimeoutMsg:
		if msg.load == p.load {
			p.hideStatusMessage()
		}
		return nil

	case tea.KeyMsg:
		if p.state != listStateReady {
			return nil
		}
		if p.search.Focused() {
			return p.handleSearching(msg)
		}
		return p.handleBrowsing(msg)
	}
	return nil
}

// favoritesChanged rereads the durable set. The favorites page fetches the
// catalog if it skipped the fetch while the set was empty.
func (p *ListPage) favoritesChanged() tea.Cmd {
	p.favs = p.deps.Favorites.Load()
	if p.state == listStateLoading {
		return nil
	}
	if p.scoped() && p.catalog == nil && p.favs.Len() > 0 {
		p.load = nextLoad()
		return p.fetch()
	}
	if p.state == listStateReady {
		if p.scoped() {
			p.refreshFacets()
		}
		p.derive()
	}
	return nil
}

func (p *ListPage) handleBrowsing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Up):
		p.projector.CursorUp()
	case key.Matches(msg, p.keys.Down):
		p.projector.CursorDown()
	case key.Matches(msg, p.keys.Top):
		p.projector.CursorTop()
	case key.Matches(msg, p.keys.Bottom):
		p.projector.CursorBottom()

	case key.Matches(msg, p.keys.Open):
		p.hideStatusMessage()
		return p.projector.Activate(view.DetailControl)
	case key.Matches(msg, p.keys.Favorite):
		return p.projector.Activate(view.ToggleControl)

	case key.Matches(msg, p.keys.Search):
		p.hideStatusMessage()
		p.search.CursorEnd()
		p.search.Focus()
		return textinput.Blink

	case key.Matches(msg, p.keys.Facet):
		p.cycleFacet(1)
	case key.Matches(msg, p.keys.FacetRev):
		p.cycleFacet(-1)

	case key.Matches(msg, p.keys.Reset):
		p.criteria = v1.DefaultCriteria()
		p.search.Reset()
		p.facet = 0
		p.derive()
	}
	return nil
}

func (p *ListPage) handleSearching(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Accept), key.Matches(msg, p.keys.Cancel):
		p.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	if v := p.search.Value(); v != p.criteria.SearchTerm {
		p.criteria.SearchTerm = v
		p.derive()
	}
	return cmd
}

func (p *ListPage) cycleFacet(step int) {
	n := len(p.facets)
	p.facet = ((p.facet+step)%n + n) % n
	p.criteria.PublisherFacet = p.facets[p.facet]
	p.derive()
}

// VIEW

func (p *ListPage) View() string {
	var b strings.Builder

	switch p.state {
	case listStateLoading:
		fmt.Fprintf(&b, " %s Loading books...", p.spinner.View())
		return b.String()
	case listStateError:
		fmt.Fprintf(&b, " %s %s", text.EmojiError, ui.RedFg(catalogUnavailableText))
		return b.String()
	}

	fmt.Fprintf(&b, " %s\n\n", p.filterView())

	rowsHeight := p.height - listViewTopPadding - listViewBottomPad
	fmt.Fprintf(&b, "%s\n\n", p.projector.View(p.width-listHorizontalPad, rowsHeight, p.criteria.SearchTerm))

	footer := " " + ui.GrayFg(p.projector.CountLine())
	if p.showStatusMessage {
		footer += dividerDot + p.statusMessage.String()
	}
	b.WriteString(footer)
	return b.String()
}

func (p *ListPage) filterView() string {
	var search string
	if p.search.Focused() {
		search = p.search.View()
	} else if p.criteria.SearchTerm != "" {
		search = promptStyle("Search: ") + ui.NormalFg("“"+p.criteria.SearchTerm+"”")
	} else {
		search = ui.DimNormalFg("/ to search")
	}

	facet := "any"
	if p.criteria.FacetActive() {
		facet = text.ColoredPublisher(p.criteria.PublisherFacet)
	}
	return search + dividerDot + promptStyle("Publisher: ") + facet
}
