package model

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/byxorna/shelf/pkg/catalog"
	"github.com/byxorna/shelf/pkg/db/memory"
	"github.com/byxorna/shelf/pkg/favorites"
	"github.com/byxorna/shelf/pkg/page"
	"github.com/byxorna/shelf/pkg/text"
	"github.com/byxorna/shelf/pkg/types/v1"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	status int32
	hits   int32
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.hits, 1)
	if s := atomic.LoadInt32(&f.status); s != 0 {
		w.WriteHeader(int(s))
		return
	}
	switch r.URL.Path {
	case "/books":
		fmt.Fprint(w, `[{"isbn":"A","title":"Go","publisher":"X"},{"isbn":"B","title":"Rust","publisher":"Y"}]`)
	case "/books/B":
		fmt.Fprint(w, `{"isbn":"B","title":"Rust","publisher":"Y"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestModel(t *testing.T, start page.Target, favs string) (Model, *fakeCatalog) {
	t.Helper()
	f := &fakeCatalog{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	kv := memory.New()
	if favs != "" {
		require.NoError(t, kv.Set(favorites.DefaultKey, []byte(favs)))
	}
	m := New(Options{
		StartPage: start,
		Deps: page.Deps{
			Catalog:   catalog.NewStore(catalog.NewClient(srv.Client(), srv.URL, nil), nil),
			Favorites: favorites.New(kv),
		},
	})
	return m, f
}

// collect runs cmd and returns the messages it produced, expanding batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for i := 0; i < v.Len(); i++ {
		if c, ok := v.Index(i).Interface().(tea.Cmd); ok {
			out = append(out, collect(c)...)
		}
	}
	return out
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle feeds the messages of cmd back into m.
func settle(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		m, _ = send(m, msg)
	}
	return m
}

func boot(m Model) Model {
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return settle(m, m.Init())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartsOnCatalog(t *testing.T) {
	m, f := newTestModel(t, page.CatalogTarget, `["B"]`)
	m = boot(m)

	assert.Equal(t, page.CatalogTarget, m.Page().Target())
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.hits))
	out := m.View()
	assert.Contains(t, out, "2 Books displayed")
	assert.Contains(t, out, fmt.Sprintf("%s %d", text.EmojiFavorite, 1))
}

func TestBadgeSurvivesCatalogFailure(t *testing.T) {
	m, f := newTestModel(t, page.CatalogTarget, `["A","B"]`)
	atomic.StoreInt32(&f.status, http.StatusServiceUnavailable)
	m = boot(m)

	out := m.View()
	assert.Contains(t, out, "Failed to load books. Make sure the API server is running.")
	assert.Contains(t, out, fmt.Sprintf("%s %d", text.EmojiFavorite, 2))
	assert.Contains(t, out, "offline")
}

func TestTabSwitchesPages(t *testing.T) {
	m, _ := newTestModel(t, page.CatalogTarget, "")
	m = boot(m)

	m, cmd := send(m, keyMsg("tab"))
	assert.Equal(t, page.FavoritesTarget, m.Page().Target())
	assert.Nil(t, cmd, "an empty favorites page does not fetch")
	assert.Contains(t, m.View(), "No favorite books found.")

	m, cmd = send(m, keyMsg("tab"))
	assert.Equal(t, page.CatalogTarget, m.Page().Target())
	assert.NotNil(t, cmd)
}

func TestDetailRoundTrip(t *testing.T) {
	m, _ := newTestModel(t, page.FavoritesTarget, `["B"]`)
	m = boot(m)

	_, cmd := send(m, keyMsg("enter"))
	require.NotNil(t, cmd)
	nav := cmd()
	assert.Equal(t, page.NavigateMsg{Target: page.DetailTarget, ID: "B"}, nav)

	m, cmd = send(m, nav)
	m = settle(m, cmd)
	detail, ok := m.Page().(*page.DetailPage)
	require.True(t, ok)
	assert.Equal(t, v1.ID("B"), detail.ID())
	assert.Equal(t, "Rust", detail.Book().Title)

	// favoriting from the detail page moves the badge
	m, _ = send(m, keyMsg("f"))
	assert.Contains(t, m.View(), fmt.Sprintf("%s %d", text.EmojiFavorite, 0))

	m, _ = send(m, keyMsg("esc"))
	assert.Equal(t, page.FavoritesTarget, m.Page().Target())
}

func TestReloadIsAFreshLoad(t *testing.T) {
	m, f := newTestModel(t, page.CatalogTarget, "")
	m = boot(m)
	before := m.Page()

	m, cmd := send(m, keyMsg("r"))
	m = settle(m, cmd)
	assert.NotSame(t, before, m.Page())
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.hits))
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, page.CatalogTarget, "")
	m = boot(m)

	_, cmd := send(m, keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	// q is text while searching, ctrl+c still quits
	m, _ = send(m, keyMsg("/"))
	m, _ = send(m, keyMsg("q"))
	assert.True(t, m.Page().Capturing())
	l, ok := m.Page().(*page.ListPage)
	require.True(t, ok)
	assert.Equal(t, "q", l.Criteria().SearchTerm)

	_, cmd = send(m, keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestErrMsgIsDismissed(t *testing.T) {
	m, _ := newTestModel(t, page.CatalogTarget, "")
	m = boot(m)

	m, _ = send(m, ErrMsg{Err: errors.New("watcher died")})
	assert.Contains(t, m.View(), "watcher died")

	m, _ = send(m, keyMsg("j"))
	assert.NotContains(t, m.View(), "watcher died")
	assert.Equal(t, page.CatalogTarget, m.Page().Target())
}

func TestFavoritesChangedReachesPage(t *testing.T) {
	m, _ := newTestModel(t, page.CatalogTarget, "")
	m = boot(m)

	m.deps.Favorites.Toggle("A")
	m, _ = send(m, page.FavoritesChangedMsg{})
	assert.Contains(t, m.View(), fmt.Sprintf("%s %d", text.EmojiFavorite, 1))
}

func TestWatcherChangeReachesDetailPage(t *testing.T) {
	srv := httptest.NewServer(&fakeCatalog{})
	t.Cleanup(srv.Close)
	kv := memory.New()
	require.NoError(t, kv.Set(favorites.DefaultKey, []byte(`["A"]`)))
	favs := favorites.New(kv)
	favs.Load()

	changes := make(chan struct{}, 1)
	m := New(Options{
		StartPage: page.DetailTarget,
		StartID:   "B",
		Changes:   changes,
		Deps: page.Deps{
			Catalog:   catalog.NewStore(catalog.NewClient(srv.Client(), srv.URL, nil), nil),
			Favorites: favs,
		},
	})
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	// the page alone; Init would also block on the watcher
	m = settle(m, m.Page().Init())
	require.Equal(t, "Rust", m.Page().(*page.DetailPage).Book().Title)

	// another process adds B and C
	require.NoError(t, kv.Set(favorites.DefaultKey, []byte(`["A","B","C"]`)))
	changes <- struct{}{}
	msgs := collect(waitForFavoritesChange(changes))
	require.Equal(t, []tea.Msg{page.FavoritesChangedMsg{}}, msgs)

	m, cmd := send(m, msgs[0])
	assert.Contains(t, m.View(), fmt.Sprintf("%s %d", text.EmojiFavorite, 3))

	// the watch is armed again
	changes <- struct{}{}
	assert.Equal(t, []tea.Msg{page.FavoritesChangedMsg{}}, collect(cmd))

	m, _ = send(m, keyMsg("f"))
	raw, err := kv.Get(favorites.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["A","C"]`, string(raw))
	assert.Contains(t, m.View(), fmt.Sprintf("%s %d", text.EmojiFavorite, 2))

	close(changes)
	assert.Equal(t, []tea.Msg{watchClosedMsg{}}, collect(waitForFavoritesChange(changes)))
}

func TestStorageStatusInHeader(t *testing.T) {
	m, _ := newTestModel(t, page.CatalogTarget, "")
	m = boot(m)
	assert.NotContains(t, m.View(), "favorites not saved")

	kv := memory.New()
	kv.FailWrites = true
	m.deps.Favorites = favorites.New(kv)
	m.deps.Favorites.Toggle("A")
	assert.Contains(t, m.View(), "favorites not saved")
}
