package page

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/byxorna/shelf/pkg/catalog"
	"github.com/byxorna/shelf/pkg/text"
	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/byxorna/shelf/pkg/ui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"go.uber.org/zap"
)

const (
	detailHeaderHeight = 3
	statusBarHeight    = 1

	noDescriptionText   = "No description available."
	notApplicableText   = "N/A"
	noISBNText          = "No ISBN provided."
	detailErrorText     = "Failed to load book details. Make sure the API server is running."
	bookNotFoundHeading = "Book not found"
)

var (
	statusBarNoteStyle = ui.StatusBarStyle.Render
	statusBarPosStyle  = ui.StatusBarStyle.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).Render
	statusBarFavStyle  = ui.StatusBarStyle.Copy().Foreground(ui.Red).Render
	headingStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFF7DB"))
	labelStyle         = lipgloss.NewStyle().Bold(true)
)

type detailState int

const (
	detailStateLoading detailState = iota
	detailStateReady
	detailStateNotFound
	detailStateError
)

func (s detailState) String() string {
	return map[detailState]string{
		detailStateLoading:  "loading",
		detailStateReady:    "ready",
		detailStateNotFound: "not found",
		detailStateError:    "error",
	}[s]
}

type bookFetchedMsg struct {
	load uint64
	book v1.Book
	err  error
}

type contentRenderedMsg struct {
	load    uint64
	content string
}

// DetailPage shows a single book resolved from its identifier.
type DetailPage struct {
	deps Deps
	id   v1.ID
	load uint64
	keys KeyMap

	state    detailState
	notFound string
	err      error
	book     v1.Book

	viewport viewport.Model
	spinner  spinner.Model

	showStatusMessage bool
	statusMessage     statusMessage

	width, height int
}

func NewDetail(deps Deps, id v1.ID) *DetailPage {
	sp := spinner.NewModel()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	vp := viewport.Model{}
	vp.YPosition = detailHeaderHeight

	return &DetailPage{
		deps:     deps,
		id:       v1.ID(strings.TrimSpace(id.String())),
		load:     nextLoad(),
		keys:     DefaultKeyMap(),
		viewport: vp,
		spinner:  sp,
	}
}

func (p *DetailPage) Target() Target  { return DetailTarget }
func (p *DetailPage) Capturing() bool { return false }
func (p *DetailPage) ID() v1.ID       { return p.id }
func (p *DetailPage) Book() v1.Book   { return p.book }
func (p *DetailPage) Err() error      { return p.err }

// NotFound is the explanation shown in the not found state.
func (p *DetailPage) NotFound() string { return p.notFound }

func (p *DetailPage) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = width
	p.viewport.Height = max(0, height-detailHeaderHeight-statusBarHeight)
}

// Init resolves the identifier. A missing identifier never reaches the
// network.
func (p *DetailPage) Init() tea.Cmd {
	if p.id == "" {
		p.state = detailStateNotFound
		p.notFound = noISBNText
		return nil
	}
	p.state = detailStateLoading
	p.spinner.Start()

	load, id, store, ctx := p.load, p.id, p.deps.Catalog, p.deps.ctx()
	return tea.Batch(spinner.Tick, func() tea.Msg {
		b, err := store.FetchOne(ctx, id)
		return bookFetchedMsg{load: load, book: b, err: err}
	})
}

func (p *DetailPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return p, p.update(msg)
}

func (p *DetailPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case bookFetchedMsg:
		if msg.load != p.load {
			return nil
		}
		p.spinner.Finish()
		switch {
		case msg.err == nil:
			p.state = detailStateReady
			p.book = msg.book
			return p.render()
		case errors.Is(msg.err, catalog.ErrItemNotFound):
			p.state = detailStateNotFound
			p.notFound = fmt.Sprintf("No book with ISBN %s.", p.id)
		default:
			p.state = detailStateError
			p.err = msg.err
			p.deps.logger().Warn("detail page load failed", zap.String("id", p.id.String()), zap.Error(msg.err))
		}
		return nil

	case FavoritesChangedMsg:
		p.deps.Favorites.Load()
		return nil

	case contentRenderedMsg:
		if msg.load == p.load {
			p.viewport.SetContent(msg.content)
		}
		return nil

	case errMsg:
		p.deps.logger().Warn("unable to render book", zap.Error(msg))
		p.viewport.SetContent(p.plainContent())
		return nil

	case tea.WindowSizeMsg:
		if p.state == detailStateReady {
			return p.render()
		}
		return nil

	case spinner.TickMsg:
		if p.state != detailStateLoading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case statusMessageTimeoutMsg:
		if msg.load == p.load {
			p.showStatusMessage = false
		}
		return nil

	case tea.KeyMsg:
		if p.state != detailStateReady {
			return nil
		}
		switch {
		case key.Matches(msg, p.keys.Favorite):
			return p.toggle()
		case key.Matches(msg, p.keys.Top):
			p.viewport.GotoTop()
			return nil
		case key.Matches(msg, p.keys.Bottom):
			p.viewport.GotoBottom()
			return nil
		}
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (p *DetailPage) toggle() tea.Cmd {
	favs := p.deps.Favorites.Toggle(p.book.ID)
	p.showStatusMessage = true
	switch {
	case p.deps.Favorites.LastWriteErr() != nil:
		p.statusMessage = statusMessage{subtleStatusMessage, "Favorites not saved"}
	case favs.Contains(p.book.ID):
		p.statusMessage = statusMessage{normalStatusMessage, "Added to favorites"}
	default:
		p.statusMessage = statusMessage{normalStatusMessage, "Removed from favorites"}
	}
	return waitForStatusMessageTimeout(p.load)
}

// Markdown is the book as a markdown document, the input for glamour.
func (p *DetailPage) Markdown() string {
	b := p.book
	var s strings.Builder
	abstract := strings.TrimSpace(b.Abstract)
	if abstract == "" {
		abstract = noDescriptionText
	}
	fmt.Fprintf(&s, "%s\n\n", abstract)
	fmt.Fprintf(&s, "* **Author:** %s\n", orNA(b.Author))
	fmt.Fprintf(&s, "* **Publisher:** %s\n", orNA(b.Publisher.DisplayName()))
	if b.Publisher.URL != "" {
		fmt.Fprintf(&s, "  <%s>\n", b.Publisher.URL)
	}
	fmt.Fprintf(&s, "* **Pages:** %s\n", pages(b.NumPages))
	if b.Price != "" {
		fmt.Fprintf(&s, "* **Price:** %s\n", b.Price)
	}
	fmt.Fprintf(&s, "* **ISBN:** %s\n", b.ID)
	fmt.Fprintf(&s, "* **Cover:** %s\n", coverRef(b))
	return s.String()
}

func (p *DetailPage) render() tea.Cmd {
	md := p.Markdown()
	width := max(0, p.viewport.Width)
	load := p.load
	return func() tea.Msg {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err != nil {
			return errMsg{err}
		}
		out, err := r.Render(md)
		if err != nil {
			return errMsg{err}
		}
		return contentRenderedMsg{load: load, content: out}
	}
}

func (p *DetailPage) plainContent() string {
	return p.Markdown()
}

func (p *DetailPage) View() string {
	switch p.state {
	case detailStateLoading:
		return fmt.Sprintf(" %s Loading %s...", p.spinner.View(), p.id)
	case detailStateNotFound:
		return fmt.Sprintf(" %s\n\n %s", headingStyle.Render(text.EmojiQuestionmark+" "+bookNotFoundHeading), ui.GrayFg(p.notFound))
	case detailStateError:
		return fmt.Sprintf(" %s\n\n %s", headingStyle.Render(text.EmojiError+" Error"), ui.RedFg(detailErrorText))
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", headingStyle.Render(p.book.Title))
	fmt.Fprintf(&b, " %s\n", ui.DimNormalFg(p.book.Subtitle))
	fmt.Fprintf(&b, "%s\n", p.viewport.View())
	b.WriteString(p.statusBarView())
	return b.String()
}

func (p *DetailPage) statusBarView() string {
	heart := statusBarNoteStyle(" " + text.EmojiNotFavorite + " ")
	if p.deps.Favorites.Contains(p.book.ID) {
		heart = statusBarFavStyle(" " + text.EmojiFavorite + " ")
	}

	percent := math.Max(0, math.Min(1, p.viewport.ScrollPercent()))
	scroll := statusBarPosStyle(fmt.Sprintf(" %3.f%% ", percent*100))

	note := " " + p.book.Author
	if p.showStatusMessage {
		note = " " + p.statusMessage.String()
	}
	note = text.TruncateWithTail(note, uint(max(0, p.width-ansi.PrintableRuneWidth(heart)-ansi.PrintableRuneWidth(scroll))), text.Ellipsis)
	padding := max(0, p.width-ansi.PrintableRuneWidth(heart)-ansi.PrintableRuneWidth(note)-ansi.PrintableRuneWidth(scroll))

	return heart + statusBarNoteStyle(note+strings.Repeat(" ", padding)) + scroll
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notApplicableText
	}
	return s
}

// pages renders the page count, "N/A" when unknown or zero.
func pages(n *int) string {
	if n == nil || *n <= 0 {
		return notApplicableText
	}
	return humanize.Comma(int64(*n))
}

// coverRef is where the browser version looked for the cover image.
func coverRef(b v1.Book) string {
	if b.Cover != "" {
		return b.Cover
	}
	return fmt.Sprintf("images/%s.png", b.ID)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
