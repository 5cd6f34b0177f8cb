// Package favorites owns the persisted set of favorite book identifiers.
//
// The set lives under a single key of a db.KV as a JSON array of strings.
// Every mutation writes the whole set back before returning, so a render that
// follows a Toggle or Remove always sees what is on disk.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/byxorna/shelf/pkg/db"
	"github.com/byxorna/shelf/pkg/types/v1"
	"go.uber.org/zap"
)

// DefaultKey is the storage key the browser version used in localStorage.
const DefaultKey = "favorites"

// ErrPersistedStateCorrupt marks stored content that is not a JSON array of
// strings. It is logged and recovered to an empty set, never returned.
var ErrPersistedStateCorrupt = fmt.Errorf("persisted favorites are corrupt")

type Store struct {
	kv     db.KV
	key    string
	logger *zap.Logger

	set          v1.FavoriteSet
	lastWriteErr error
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(kv db.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: zap.NewNop(),
		set:    v1.NewFavoriteSet(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Key() string { return s.key }

// Load replaces the in-memory set with the stored one. A missing key or
// unreadable content yields an empty set.
func (s *Store) Load() v1.FavoriteSet {
	s.set = s.read()
	return s.set.Clone()
}

func (s *Store) read() v1.FavoriteSet {
	raw, err := s.kv.Get(s.key)
	if err != nil {
		if !errors.Is(err, db.ErrNoKeyFound) {
			s.logger.Warn("unable to read favorites", zap.String("key", s.key), zap.Error(err))
		}
		return v1.NewFavoriteSet()
	}

	ids, err := decode(raw)
	if err != nil {
		s.logger.Warn("discarding stored favorites", zap.String("key", s.key), zap.Error(err))
		return v1.NewFavoriteSet()
	}
	return v1.NewFavoriteSet(ids...)
}

func decode(raw []byte) ([]v1.ID, error) {
	var strs []string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistedStateCorrupt, err)
	}
	// "null" decodes cleanly into a nil slice; treat it like an empty array
	ids := make([]v1.ID, len(strs))
	for i, str := range strs {
		ids[i] = v1.ID(str)
	}
	return ids, nil
}

// Toggle adds id if absent and removes it if present.
func (s *Store) Toggle(id v1.ID) v1.FavoriteSet {
	if s.set.Contains(id) {
		return s.commit(s.set.Without(id))
	}
	return s.commit(s.set.With(id))
}

// Remove drops id from the set. Removing an absent id is not an error.
func (s *Store) Remove(id v1.ID) v1.FavoriteSet {
	if !s.set.Contains(id) {
		return s.set.Clone()
	}
	return s.commit(s.set.Without(id))
}

// commit writes next and then adopts it. A failed write is logged and the
// in-memory set is adopted anyway for the rest of the session.
func (s *Store) commit(next v1.FavoriteSet) v1.FavoriteSet {
	raw, err := json.Marshal(next.Strings())
	if err == nil {
		err = s.kv.Set(s.key, raw)
	}
	s.lastWriteErr = err
	if err != nil {
		s.logger.Warn("unable to persist favorites", zap.String("key", s.key), zap.String("backend", s.kv.Name()), zap.Error(err))
	} else {
		s.logger.Debug("persisted favorites", zap.String("key", s.key), zap.Int("count", next.Len()))
	}
	s.set = next
	return s.set.Clone()
}

// Count is the size of the current set, which is the last one flushed.
func (s *Store) Count() int { return s.set.Len() }

func (s *Store) Contains(id v1.ID) bool { return s.set.Contains(id) }

// Set returns a copy of the current set.
func (s *Store) Set() v1.FavoriteSet { return s.set.Clone() }

// Status is the backend's sync state when it reports one. Other backends are
// in error after a failed write and ok otherwise.
func (s *Store) Status() v1.SyncStatus {
	if r, ok := s.kv.(db.StatusReporter); ok {
		return r.Status()
	}
	if s.lastWriteErr != nil {
		return v1.StatusError
	}
	return v1.StatusOK
}

// LastWriteErr is the error from the most recent mutation, if any.
func (s *Store) LastWriteErr() error { return s.lastWriteErr }
