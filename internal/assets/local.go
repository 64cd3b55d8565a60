package assets

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir reads assets from a local directory.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: strings.TrimSpace(root)}
}

func (d *Dir) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if d.root == "" || name != filepath.Base(name) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(d.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
