package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/opst/photoshare/pkg/conn/storage"
)

// Storage is an in-memory Storage for tests.
type Storage struct {
	mux     sync.Mutex
	Objects map[string][]byte
	Types   map[string]string

	// If not nil, Put/Get/Delete return it.
	Err error
}

var _ storage.Storage = &Storage{}

func New() *Storage {
	return &Storage{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (s *Storage) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if s.Err != nil {
		return s.Err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.Objects[key] = b
	s.Types[key] = contentType
	return nil
}

func (s *Storage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	b, ok := s.Objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.Objects, key)
	delete(s.Types, key)
	return nil
}

func (s *Storage) URL(_ context.Context, key string) (string, error) {
	return "https://storage.example.com/" + key, nil
}
