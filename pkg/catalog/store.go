package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/byxorna/shelf/pkg/types/v1"
	"go.uber.org/zap"
)

// Source is what the store fetches from. *Client implements it.
type Source interface {
	ListBooks(ctx context.Context) ([]v1.Book, error)
	GetBook(ctx context.Context, id v1.ID) (v1.Book, error)
}

// Store owns the canonical in-memory collection. The collection is only ever
// replaced as a whole; a failed fetch leaves it as it was.
type Store struct {
	sync.RWMutex

	source      Source
	logger      *zap.Logger
	collection  []v1.Book
	status      v1.SyncStatus
	lastFetched time.Time
	lastErr     error
}

func NewStore(source Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		source: source,
		logger: logger,
		status: v1.StatusUninitialized,
	}
}

// FetchAll loads the whole catalog and swaps it in. It is safe to call from a
// tea.Cmd goroutine while the UI reads Items.
func (s *Store) FetchAll(ctx context.Context) ([]v1.Book, error) {
	s.Lock()
	s.status = v1.StatusSynchronizing
	s.Unlock()

	books, err := s.source.ListBooks(ctx)

	s.Lock()
	defer s.Unlock()
	s.lastErr = err
	if err != nil {
		s.status = v1.StatusError
		s.logger.Warn("catalog fetch failed", zap.Error(err))
		return nil, err
	}
	s.collection = books
	s.status = v1.StatusOK
	s.lastFetched = time.Now()
	s.logger.Info("catalog loaded", zap.Int("books", len(books)))
	return copyBooks(books), nil
}

// FetchOne loads a single book for the detail page. It does not touch the
// collection.
func (s *Store) FetchOne(ctx context.Context, id v1.ID) (v1.Book, error) {
	b, err := s.source.GetBook(ctx, id)
	if err != nil {
		s.logger.Warn("book fetch failed", zap.String("id", string(id)), zap.Error(err))
		return v1.Book{}, err
	}
	return b, nil
}

// Items returns a copy of the current collection.
func (s *Store) Items() []v1.Book {
	s.RLock()
	defer s.RUnlock()
	return copyBooks(s.collection)
}

func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.collection)
}

func (s *Store) Status() v1.SyncStatus {
	s.RLock()
	defer s.RUnlock()
	return s.status
}

func (s *Store) LastFetched() time.Time {
	s.RLock()
	defer s.RUnlock()
	return s.lastFetched
}

func (s *Store) LastErr() error {
	s.RLock()
	defer s.RUnlock()
	return s.lastErr
}

func copyBooks(in []v1.Book) []v1.Book {
	out := make([]v1.Book, len(in))
	copy(out, in)
	return out
}
