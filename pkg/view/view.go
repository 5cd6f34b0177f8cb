// Package view projects a derived list of books onto terminal rows and routes
// the two per-row controls back to whoever bound them.
package view

import (
	"fmt"
	"strings"

	"github.com/byxorna/shelf/pkg/text"
	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/byxorna/shelf/pkg/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
)

const (
	verticalLine  = "│"
	columnGap     = 2
	authorWidth   = 20
	minTitleWidth = 12
)

// Control is one of the two event sources a row exposes.
type Control int

const (
	ToggleControl Control = iota
	DetailControl
)

func (c Control) String() string {
	return map[Control]string{
		ToggleControl: "toggle favorite",
		DetailControl: "open detail",
	}[c]
}

// Row is one rendered line. A placeholder row carries no book.
type Row struct {
	Book        v1.Book
	Favorite    bool
	Placeholder string
}

func (r Row) IsPlaceholder() bool { return r.Placeholder != "" }

type Handlers struct {
	OnToggle func(id v1.ID) tea.Cmd
	OnDetail func(id v1.ID) tea.Cmd
}

type Options struct {
	// Placeholder is shown as the only row when the view is empty.
	Placeholder string
	// CountFormat receives the number of displayed books, already formatted.
	CountFormat string
}

type Projector struct {
	opts     Options
	handlers Handlers
	rows     []Row
	cursor   int
}

func New(opts Options) *Projector {
	if opts.Placeholder == "" {
		opts.Placeholder = "Nothing found."
	}
	if opts.CountFormat == "" {
		opts.CountFormat = "%s Books displayed"
	}
	p := &Projector{opts: opts}
	p.Render(nil, v1.NewFavoriteSet())
	return p
}

// Bind replaces the handlers for both controls.
func (p *Projector) Bind(h Handlers) {
	p.handlers = h
}

// Render replaces every row. Nothing from the previous render survives except
// the cursor, which is clamped to the new row count.
func (p *Projector) Render(books []v1.Book, favorites v1.FavoriteSet) {
	if len(books) == 0 {
		p.rows = []Row{{Placeholder: p.opts.Placeholder}}
		p.cursor = 0
		return
	}
	rows := make([]Row, len(books))
	for i, b := range books {
		rows[i] = Row{Book: b, Favorite: favorites.Contains(b.ID)}
	}
	p.rows = rows
	if p.cursor >= len(rows) {
		p.cursor = len(rows) - 1
	}
}

// Rows returns a copy of the rendered rows, placeholder included.
func (p *Projector) Rows() []Row {
	out := make([]Row, len(p.rows))
	copy(out, p.rows)
	return out
}

// Len is the number of book rows; zero while the placeholder is shown.
func (p *Projector) Len() int {
	if len(p.rows) == 1 && p.rows[0].IsPlaceholder() {
		return 0
	}
	return len(p.rows)
}

func (p *Projector) Cursor() int { return p.cursor }

// Selected returns the row under the cursor.
func (p *Projector) Selected() (Row, bool) {
	if p.Len() == 0 {
		return Row{}, false
	}
	return p.rows[p.cursor], true
}

func (p *Projector) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *Projector) CursorDown() {
	if p.cursor < p.Len()-1 {
		p.cursor++
	}
}

func (p *Projector) CursorTop() { p.cursor = 0 }

func (p *Projector) CursorBottom() {
	p.cursor = max(0, p.Len()-1)
}

// Activate fires control on the selected row. The placeholder row has no
// controls, so activating it does nothing.
func (p *Projector) Activate(c Control) tea.Cmd {
	row, ok := p.Selected()
	if !ok {
		return nil
	}
	switch c {
	case ToggleControl:
		if p.handlers.OnToggle != nil {
			return p.handlers.OnToggle(row.Book.ID)
		}
	case DetailControl:
		if p.handlers.OnDetail != nil {
			return p.handlers.OnDetail(row.Book.ID)
		}
	}
	return nil
}

// CountLine is the readout under the list, e.g. "3 Books displayed".
func (p *Projector) CountLine() string {
	return fmt.Sprintf(p.opts.CountFormat, humanize.Comma(int64(p.Len())))
}

// View draws the rows into width columns, keeping the cursor inside a window
// of height rows. Matches of highlight in titles are underlined.
func (p *Projector) View(width, height int, highlight string) string {
	if p.Len() == 0 {
		return "  " + ui.GrayFg(p.rows[0].Placeholder)
	}

	start, end := window(p.cursor, len(p.rows), height)
	titleWidth := max(minTitleWidth, width-authorWidth-publisherWidth(p.rows)-8-columnGap*2)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, p.rowView(p.rows[i], i == p.cursor, titleWidth, highlight))
	}
	return strings.Join(lines, "\n")
}

func (p *Projector) rowView(r Row, selected bool, titleWidth int, highlight string) string {
	var (
		gutter = " "
		heart  = "  "
		title  = fit(r.Book.Title, titleWidth)
		author = fit(r.Book.Author, authorWidth)
		pub    = r.Book.Publisher.DisplayName()
	)
	if r.Favorite {
		heart = text.EmojiFavorite
	}

	if selected {
		gutter = ui.DullFuchsiaFg(verticalLine)
		title = text.StyleFilteredText(title, highlight, ui.FuchsiaTerm)
		author = ui.RowSecondaryFocused(author)
	} else {
		title = text.StyleFilteredText(title, highlight, ui.NormalTerm)
		author = ui.RowSecondaryUnfocused(author)
	}

	gap := strings.Repeat(" ", columnGap)
	return gutter + " " + fitWidth(heart, 2) + " " + title + gap + author + gap + text.ColoredPublisher(pub)
}

// window returns the slice bounds of rows to draw so the cursor stays visible.
func window(cursor, total, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

func publisherWidth(rows []Row) int {
	w := 0
	for _, r := range rows {
		w = max(w, runewidth.StringWidth(r.Book.Publisher.DisplayName()))
	}
	return w
}

// fit truncates s to w cells and pads it to exactly w.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, text.Ellipsis)
	}
	return runewidth.FillRight(s, w)
}

func fitWidth(s string, w int) string {
	if n := runewidth.StringWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
