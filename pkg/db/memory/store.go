// Package memory is a process-local db.KV used by tests and --ephemeral runs.
package memory

import (
	"fmt"
	"sync"

	"github.com/byxorna/shelf/pkg/db"
)

type Store struct {
	sync.RWMutex

	data map[string][]byte

	// FailWrites makes Set fail, for exercising best-effort persistence.
	FailWrites bool
	writes     int
}

func New() *Store {
	return &Store{data: map[string][]byte{}}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, db.ErrEmptyKey
	}
	s.RLock()
	defer s.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, db.ErrNoKeyFound)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) Set(key string, value []byte) error {
	if key == "" {
		return db.ErrEmptyKey
	}
	s.Lock()
	defer s.Unlock()
	if s.FailWrites {
		return fmt.Errorf("memory store is read only")
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	s.writes++
	return nil
}

// Writes is the number of successful Set calls.
func (s *Store) Writes() int {
	s.RLock()
	defer s.RUnlock()
	return s.writes
}

func (s *Store) Close() error { return nil }
