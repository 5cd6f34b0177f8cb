// Package fs stores each key as a JSON file inside a directory.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/byxorna/shelf/pkg/db"
	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
)

var (
	StorageFileExtension = ".json"

	ErrInvalidKey = fmt.Errorf("key may not contain path separators")
)

type Store struct {
	*sync.Mutex

	Directory string `validate:"required,dir"`

	status  v1.SyncStatus
	logger  *zap.Logger
	written map[string][]byte // last value this process wrote, per key
}

func New(dir string, createDirIfMissing bool, logger *zap.Logger) (*Store, error) {
	expandedPath, err := homedir.Expand(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := Store{
		Mutex:     &sync.Mutex{},
		Directory: expandedPath,
		status:    v1.StatusUninitialized,
		logger:    logger,
		written:   map[string][]byte{},
	}

	finfo, err := os.Stat(expandedPath)
	if err != nil || !finfo.IsDir() {
		if !createDirIfMissing {
			return nil, fmt.Errorf("storage directory %s does not exist", expandedPath)
		}
		if err := os.MkdirAll(expandedPath, 0700); err != nil {
			return nil, fmt.Errorf("error creating %s: %w", expandedPath, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("error validating storage provider: %w", err)
	}

	s.status = v1.StatusOK
	return &s, nil
}

func (x *Store) Validate() error {
	validate := validator.New()
	return validate.Struct(*x)
}

func (x *Store) Name() string { return "fs" }

func (x *Store) Status() v1.SyncStatus {
	x.Lock()
	defer x.Unlock()
	return x.status
}

// StoragePath is the file backing key.
func (x *Store) StoragePath(key string) (string, error) {
	if key == "" {
		return "", db.ErrEmptyKey
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return path.Join(x.Directory, key+StorageFileExtension), nil
}

func (x *Store) Get(key string) ([]byte, error) {
	p, err := x.StoragePath(key)
	if err != nil {
		return nil, err
	}
	b, err := ioutil.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, db.ErrNoKeyFound)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", p, err)
	}
	return b, nil
}

// Set writes value to a temp file, syncs it and renames it over the key's
// file, so readers never observe a partial value.
func (x *Store) Set(key string, value []byte) error {
	p, err := x.StoragePath(key)
	if err != nil {
		return err
	}

	x.Lock()
	defer x.Unlock()
	x.status = v1.StatusSynchronizing

	f, err := ioutil.TempFile(x.Directory, "."+key+"-*")
	if err != nil {
		x.status = v1.StatusError
		return fmt.Errorf("unable to create temp file for %s: %w", key, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(value); err != nil {
		f.Close()
		x.status = v1.StatusError
		return fmt.Errorf("unable to write %s: %w", key, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		x.status = v1.StatusError
		return fmt.Errorf("unable to sync %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		x.status = v1.StatusError
		return fmt.Errorf("unable to close %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		x.status = v1.StatusError
		return fmt.Errorf("unable to store %s: %w", key, err)
	}

	written := make([]byte, len(value))
	copy(written, value)
	x.written[key] = written
	x.status = v1.StatusOK
	return nil
}

func (x *Store) Close() error { return nil }

// Watch reports writes to key's file made by other processes. Events caused by
// our own Set are recognized by content and dropped.
func (x *Store) Watch(ctx context.Context, key string, onChange func()) (func(), error) {
	target, err := x.StoragePath(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// the directory is watched, not the file: Set replaces the file by rename
	if err := watcher.Add(x.Directory); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("unable to watch %s: %w", x.Directory, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(target) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if x.isOwnWrite(key) {
					continue
				}
				x.logger.Debug("favorites changed on disk", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				x.logger.Warn("watch error", zap.String("dir", x.Directory), zap.Error(err))
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			watcher.Close()
			<-done
		})
	}
	return stop, nil
}

// isOwnWrite compares the file with the last value written by this process.
// A foreign value becomes the new baseline so a later revert is still seen.
func (x *Store) isOwnWrite(key string) bool {
	current, err := x.Get(key)
	x.Lock()
	defer x.Unlock()
	last, ok := x.written[key]
	if err != nil {
		delete(x.written, key)
		return false
	}
	if ok && bytes.Equal(current, last) {
		return true
	}
	x.written[key] = current
	return false
}
