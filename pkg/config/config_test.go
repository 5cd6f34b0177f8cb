package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromReaderDefaults(t *testing.T) {
	c, err := NewFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default, *c)
	assert.Equal(t, "http://localhost:4730", c.Catalog.URL)
	assert.Equal(t, "favorites", c.Storage.Key)
	assert.Equal(t, BackendFS, c.Storage.Backend)
}

func TestNewFromReaderOverrides(t *testing.T) {
	c, err := NewFromReader(strings.NewReader(`
catalog:
  url: https://books.example.com/api
  token: s3cret
storage:
  backend: memory
  key: shelf-favorites
startPage: favorites
`))
	require.NoError(t, err)
	assert.Equal(t, "https://books.example.com/api", c.Catalog.URL)
	assert.Equal(t, "s3cret", c.Catalog.Token)
	assert.Equal(t, BackendMemory, c.Storage.Backend)
	assert.Equal(t, "shelf-favorites", c.Storage.Key)
	assert.Equal(t, "favorites", c.StartPage)
	// untouched fields keep their defaults
	assert.True(t, c.Storage.Watch)
}

func TestNewFromReaderInvalid(t *testing.T) {
	testcases := map[string]string{
		"bad backend": "storage:\n  backend: s3\n",
		"bad url":     "catalog:\n  url: not a url\n",
		"bad page":    "startPage: settings\n",
		"slash key":   "storage:\n  key: a/b\n",
		"empty key":   "storage:\n  key: \"\"\n",
		"bad yaml":    "catalog: [",
	}
	for name, in := range testcases {
		t.Run(name, func(t *testing.T) {
			_, err := NewFromReader(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default, *c)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "shelf.yaml")
	require.NoError(t, os.WriteFile(p, []byte("storage:\n  directory: "+dir+"\n"), 0600))

	c, err := Load(p)
	require.NoError(t, err)
	got, err := c.StorageDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestLoadInvalidFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "shelf.yaml")
	require.NoError(t, os.WriteFile(p, []byte("startPage: nowhere\n"), 0600))
	_, err := Load(p)
	assert.Error(t, err)
}
