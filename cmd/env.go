package cmd

import (
	"context"
	"fmt"

	"github.com/byxorna/shelf/pkg/catalog"
	"github.com/byxorna/shelf/pkg/config"
	"github.com/byxorna/shelf/pkg/db"
	"github.com/byxorna/shelf/pkg/db/charmkv"
	"github.com/byxorna/shelf/pkg/db/fs"
	"github.com/byxorna/shelf/pkg/db/memory"
	"github.com/byxorna/shelf/pkg/favorites"
	shelfhttp "github.com/byxorna/shelf/pkg/net/http"
	"github.com/byxorna/shelf/pkg/page"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// env is everything a command needs, built from flags and the config file.
type env struct {
	config    *config.Config
	logger    *zap.Logger
	kv        db.KV
	favorites *favorites.Store
	catalog   *catalog.Store
}

func setup(ctx context.Context, opts *options) (*env, error) {
	c, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(c, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("unable to set up logging: %w", err)
	}

	kv, err := openKV(c, opts.Ephemeral, logger)
	if err != nil {
		logger.Sync()
		return nil, err
	}

	client := catalog.NewClient(shelfhttp.NewClient(ctx, c.Catalog.Token), c.Catalog.URL, logger.Named("catalog"))
	e := &env{
		config:    c,
		logger:    logger,
		kv:        kv,
		favorites: favorites.New(kv, favorites.WithKey(c.Storage.Key), favorites.WithLogger(logger.Named("favorites"))),
		catalog:   catalog.NewStore(client, logger.Named("catalog")),
	}
	e.favorites.Load()
	return e, nil
}

func (e *env) deps(ctx context.Context) page.Deps {
	return page.Deps{
		Context:   ctx,
		Catalog:   e.catalog,
		Favorites: e.favorites,
		Logger:    e.logger.Named("ui"),
	}
}

// watch calls onChange when the favorites key changes outside this process.
// Backends that cannot be watched return a no-op stop func.
func (e *env) watch(ctx context.Context, onChange func()) (func(), error) {
	w, ok := e.kv.(db.Watcher)
	if !ok {
		return func() {}, nil
	}
	stop, err := w.Watch(ctx, e.favorites.Key(), onChange)
	if err != nil {
		return func() {}, err
	}
	return stop, nil
}

func (e *env) Close() error {
	err := e.kv.Close()
	e.logger.Sync()
	return err
}

// newLogger writes to a file, never stdout: the terminal belongs to the UI.
// Without --debug or a configured logFile logging is discarded.
func newLogger(c *config.Config, debug bool) (*zap.Logger, error) {
	if !debug && c.LogFile == "" {
		return zap.NewNop(), nil
	}
	path, err := c.LogPath()
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func openKV(c *config.Config, ephemeral bool, logger *zap.Logger) (db.KV, error) {
	backend := c.Storage.Backend
	if ephemeral {
		backend = config.BackendMemory
	}
	logger = logger.Named("db")

	switch backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendCharm:
		return charmkv.New(c.Storage.Database, logger)
	default:
		dir, err := c.StorageDirectory()
		if err != nil {
			return nil, fmt.Errorf("unable to resolve storage directory: %w", err)
		}
		return fs.New(dir, true, logger)
	}
}
