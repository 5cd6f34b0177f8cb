package db

import (
	"context"
	"fmt"

	"github.com/byxorna/shelf/pkg/types/v1"
)

var (
	ErrNoKeyFound = fmt.Errorf("no value found for key")
	ErrEmptyKey   = fmt.Errorf("key must not be empty")
)

// KVRead is the read half of a durable key-value backend.
type KVRead interface {
	// Get returns ErrNoKeyFound (possibly wrapped) when key was never written.
	Get(key string) ([]byte, error)
}

// KVWrite is the write half. Set must not return until the value is durable.
type KVWrite interface {
	Set(key string, value []byte) error
}

// KV is the capability the favorites store persists through. fs.Store,
// charmkv.Store and memory.Store implement it.
type KV interface {
	KVRead
	KVWrite

	Name() string
	Close() error
}

// Watcher is implemented by backends that can report changes made to a key
// by another process.
type Watcher interface {
	// Watch calls onChange after key is modified outside this process, until
	// ctx is done. The returned func stops the watch and waits for it to exit.
	Watch(ctx context.Context, key string, onChange func()) (stop func(), err error)
}

// StatusReporter is implemented by backends that track whether their last
// operation reached durable (or remote) storage.
type StatusReporter interface {
	Status() v1.SyncStatus
}
