// Package page holds the controllers that compose the catalog store, the
// favorites store, the filter and the view projector for one screen.
package page

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/byxorna/shelf/pkg/catalog"
	"github.com/byxorna/shelf/pkg/favorites"
	"github.com/byxorna/shelf/pkg/types/v1"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const statusMessageTimeout = time.Second * 2

// Deps are shared by every page. The stores outlive any single page; a page
// load only reads them.
type Deps struct {
	Context   context.Context
	Catalog   *catalog.Store
	Favorites *favorites.Store
	Logger    *zap.Logger
}

func (d Deps) ctx() context.Context {
	if d.Context == nil {
		return context.Background()
	}
	return d.Context
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Page is a screen the router can show.
type Page interface {
	tea.Model
	SetSize(width, height int)
	Target() Target
	// Capturing reports whether the page wants every key, e.g. while the
	// search input has focus.
	Capturing() bool
}

// Target names a page to navigate to.
type Target int

const (
	CatalogTarget Target = iota
	FavoritesTarget
	DetailTarget
)

func (t Target) String() string {
	return map[Target]string{
		CatalogTarget:   "catalog",
		FavoritesTarget: "favorites",
		DetailTarget:    "detail",
	}[t]
}

// ParseTarget maps a page name to its target. Unknown names land on the
// catalog.
func ParseTarget(s string) Target {
	switch s {
	case "favorites":
		return FavoritesTarget
	case "detail":
		return DetailTarget
	default:
		return CatalogTarget
	}
}

// loads numbers every page load so replies from an abandoned load are dropped.
var loads uint64

func nextLoad() uint64 { return atomic.AddUint64(&loads, 1) }

// NavigateMsg asks the router to load Target. ID is the navigation context
// for the detail page.
type NavigateMsg struct {
	Target Target
	ID     v1.ID
}

// FavoritesChangedMsg reports that the durable favorites changed outside this
// program.
type FavoritesChangedMsg struct{}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type statusMessageTimeoutMsg struct{ load uint64 }

func navigateCmd(t Target, id v1.ID) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Target: t, ID: id} }
}

func waitForStatusMessageTimeout(load uint64) tea.Cmd {
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{load: load}
	})
}
