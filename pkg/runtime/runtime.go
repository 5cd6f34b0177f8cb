// Package runtime resolves the per-user locations shelf reads and writes.
package runtime

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	XDGName = "shelf"
)

// DataDir is where file backed favorites live by default, e.g.
// ~/.local/share/shelf. It is created if missing.
func DataDir() (string, error) {
	p, err := xdg.DataFile(fmt.Sprintf("%s/%s", XDGName, ".keep"))
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// LogFile is the default debug log, e.g. ~/.cache/shelf/shelf.log.
func LogFile() (string, error) {
	return xdg.CacheFile(fmt.Sprintf("%s/%s.log", XDGName, XDGName))
}

// File is a path in the runtime directory, for sockets and other ephemera.
func File(filename string) (string, error) {
	return xdg.RuntimeFile(fmt.Sprintf("%s/%s", XDGName, filename))
}
