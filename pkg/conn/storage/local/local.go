// Package local stores objects in a directory.
//
// It is for development and single-node deployments.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/opst/photoshare/pkg/conn/storage"
)

type localStorage struct {
	root    string
	baseURL string
}

// New returns Storage storing objects under root.
//
// URL of an object is baseURL + "/" + key.
func New(root string, baseURL string) storage.Storage {
	return &localStorage{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// ErrBadKey is returned when the key escapes the root.
var ErrBadKey = errors.New("bad object key")

func (l *localStorage) path(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if key == "" || cleaned != "/"+key {
		return "", fmt.Errorf("%w: %s", ErrBadKey, key)
	}
	return filepath.Join(l.root, filepath.FromSlash(cleaned)), nil
}

func (l *localStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if 0 <= size && n != size {
		return fmt.Errorf("size mismatch: %s: expected %d bytes, got %d bytes", key, size, n)
	}
	return os.Rename(tmp.Name(), p)
}

func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return f, err
}

func (l *localStorage) Delete(ctx context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *localStorage) URL(ctx context.Context, key string) (string, error) {
	if _, err := l.path(key); err != nil {
		return "", err
	}
	segments := strings.Split(key, "/")
	for i := range segments {
		segments[i] = url.PathEscape(segments[i])
	}
	return l.baseURL + "/" + strings.Join(segments, "/"), nil
}
