// Package charmkv keeps favorites in a Charm KV database so they follow the
// user's Charm account across machines.
package charmkv

import (
	"errors"
	"fmt"
	"sync"

	"github.com/byxorna/shelf/pkg/db"
	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/charmbracelet/charm/kv"
	badger "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// DefaultDatabase is the charm kv database name.
const DefaultDatabase = "shelf"

// database is the part of *kv.KV the store uses.
type database interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Sync() error
	Close() error
}

type Store struct {
	sync.Mutex

	db     database
	name   string
	status v1.SyncStatus
	logger *zap.Logger
}

// New opens (or creates) the named database and pulls the latest remote
// state. A failed sync is logged; the local copy stays usable.
func New(name string, logger *zap.Logger) (*Store, error) {
	if name == "" {
		name = DefaultDatabase
	}
	d, err := kv.OpenWithDefaults(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open charm kv %s: %w", name, err)
	}
	s := newStore(name, d, logger)
	s.Lock()
	s.sync("")
	s.Unlock()
	return s, nil
}

func newStore(name string, d database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: d, name: name, status: v1.StatusUninitialized, logger: logger}
}

func (s *Store) Name() string { return "charm" }

// Status is offline while the charm cloud cannot be reached.
func (s *Store) Status() v1.SyncStatus {
	s.Lock()
	defer s.Unlock()
	return s.status
}

func (s *Store) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, db.ErrEmptyKey
	}
	s.Lock()
	defer s.Unlock()
	v, err := s.db.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s in charm kv %s: %w", key, s.name, db.ErrNoKeyFound)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get %s from charm kv %s: %w", key, s.name, err)
	}
	return v, nil
}

// Set writes locally and then pushes to the charm cloud. Only the local write
// decides success.
func (s *Store) Set(key string, value []byte) error {
	if key == "" {
		return db.ErrEmptyKey
	}
	s.Lock()
	defer s.Unlock()
	if err := s.db.Set([]byte(key), value); err != nil {
		s.status = v1.StatusError
		return fmt.Errorf("unable to set %s in charm kv %s: %w", key, s.name, err)
	}
	s.sync(key)
	return nil
}

// sync must be called with the lock held.
func (s *Store) sync(key string) {
	s.status = v1.StatusSynchronizing
	if err := s.db.Sync(); err != nil {
		s.status = v1.StatusOffline
		s.logger.Warn("charm kv sync failed", zap.String("db", s.name), zap.String("key", key), zap.Error(err))
		return
	}
	s.status = v1.StatusOK
}

func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()
	return s.db.Close()
}
