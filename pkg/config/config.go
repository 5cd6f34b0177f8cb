package config

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/byxorna/shelf/pkg/catalog"
	"github.com/byxorna/shelf/pkg/favorites"
	"github.com/byxorna/shelf/pkg/runtime"
	"github.com/go-playground/validator"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Backend selects where favorites are persisted.
type Backend string

const (
	BackendFS     Backend = "fs"
	BackendCharm  Backend = "charm"
	BackendMemory Backend = "memory"
)

var (
	// Default is the configuration used when ~/.shelf.yaml is missing, and
	// the base that a config file is layered onto.
	Default = Config{
		Catalog: Catalog{
			URL: catalog.DefaultBaseURL,
		},
		Storage: Storage{
			Backend: BackendFS,
			Key:     favorites.DefaultKey,
			Watch:   true,
		},
		StartPage: "catalog",
	}
)

type Config struct {
	Catalog   Catalog `yaml:"catalog"`
	Storage   Storage `yaml:"storage"`
	StartPage string  `yaml:"startPage" validate:"oneof=catalog favorites"`
	LogFile   string  `yaml:"logFile"`
}

// Catalog is the remote book service.
type Catalog struct {
	URL   string `yaml:"url" validate:"required,url"`
	Token string `yaml:"token,omitempty"`
}

type Storage struct {
	Backend Backend `yaml:"backend" validate:"oneof=fs charm memory"`
	// Directory holds one file per key for the fs backend. Empty means the
	// XDG data directory.
	Directory string `yaml:"directory,omitempty"`
	// Database is the charm kv database name for the charm backend.
	Database string `yaml:"database,omitempty"`
	Key      string `yaml:"key" validate:"required,excludesall=/"`
	// Watch reloads favorites when another process changes them.
	Watch bool `yaml:"watch"`
}

func NewFromReader(r io.Reader) (*Config, error) {
	c := Default

	bytes, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read Config: %w", err)
	}
	err = yaml.Unmarshal(bytes, &c)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal Config: %w", err)
	}

	validate := validator.New()
	err = validate.Struct(c)
	if err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &c, nil
}

// Load reads the config file at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(expandedPath)
	if errors.Is(err, os.ErrNotExist) {
		c := Default
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", expandedPath, err)
	}
	defer f.Close()

	c, err := NewFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration %s: %w", expandedPath, err)
	}
	return c, nil
}

// StorageDirectory is the expanded fs backend directory.
func (c *Config) StorageDirectory() (string, error) {
	if c.Storage.Directory == "" {
		return runtime.DataDir()
	}
	return homedir.Expand(c.Storage.Directory)
}

// LogPath is where the debug log goes when logging is enabled.
func (c *Config) LogPath() (string, error) {
	if c.LogFile == "" {
		return runtime.LogFile()
	}
	return homedir.Expand(c.LogFile)
}
