package page

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/byxorna/shelf/pkg/catalog"
	"github.com/byxorna/shelf/pkg/db/memory"
	"github.com/byxorna/shelf/pkg/favorites"
	"github.com/byxorna/shelf/pkg/types/v1"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

const booksJSON = `[
  {"isbn":"A","title":"Go","author":"Pike","publisher":{"name":"X","url":"https://x.example"},"numPages":300},
  {"isbn":"B","title":"Rust","author":"Klabnik","publisher":"Y"},
  {"isbn":"C","title":"Going Places","author":"Doe","publisher":{"name":"Y"}}
]`

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
		fmt.Fprint(w, booksJSON)
	case "/books/A":
		fmt.Fprint(w, `{"isbn":"A","title":"Go","subtitle":"The Language","author":"Pike","publisher":{"name":"X"},"numPages":300}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeCatalog) Hits() int { return int(atomic.LoadInt32(&f.hits)) }

func (f *fakeCatalog) Fail(status int) { atomic.StoreInt32(&f.status, int32(status)) }

type fixture struct {
	deps    Deps
	catalog *fakeCatalog
	kv      *memory.Store
}

func newFixture(t *testing.T, favs ...string) *fixture {
	t.Helper()
	f := &fakeCatalog{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	kv := memory.New()
	if len(favs) > 0 {
		require.NoError(t, kv.Set(favorites.DefaultKey, mustJSON(favs)))
	}
	return &fixture{
		deps: Deps{
			Catalog:   catalog.NewStore(catalog.NewClient(srv.Client(), srv.URL, nil), nil),
			Favorites: favorites.New(kv),
		},
		catalog: f,
		kv:      kv,
	}
}

func mustJSON(ids []string) []byte {
	raw, err := json.Marshal(ids)
	if err != nil {
		panic(err)
	}
	return raw
}

// collect runs cmd and returns the messages it produced, expanding batches.
// Commands that wait on timers must not be passed in.
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

// start initializes p and feeds the resulting messages back into it.
func start(p Page) {
	p.SetSize(100, 30)
	for _, msg := range collect(p.Init()) {
		p.Update(msg)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(p Page, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = p.Update(keyMsg(k))
	}
	return cmd
}

func rowIDs(p *ListPage) []v1.ID {
	var out []v1.ID
	for _, r := range p.Projector().Rows() {
		if r.IsPlaceholder() {
			continue
		}
		out = append(out, r.Book.ID)
	}
	return out
}

func favoriteIDs(p *ListPage) []v1.ID {
	var out []v1.ID
	for _, r := range p.Projector().Rows() {
		if r.Favorite {
			out = append(out, r.Book.ID)
		}
	}
	return out
}
