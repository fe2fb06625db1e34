package storage

import (
	"context"
	"sync"
)

// StubImageStorage keeps uploads in memory. Use it for development and
// tests where no real backend is available.
type StubImageStorage struct {
	// BaseURL prefixes the returned URLs
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewStubImageStorage creates a new in-memory image store
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload stores the bytes in memory and returns a synthetic URL
func (s *StubImageStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if len(data) == 0 {
		return "", ErrEmptyData
	}

	s.mu.Lock()
	s.objects[key] = append([]byte{}, data...)
	s.mu.Unlock()

	return s.BaseURL + "/" + key, nil
}

// Delete removes an object from memory
func (s *StubImageStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a stored object, for test assertions
func (s *StubImageStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Ensure StubImageStorage implements ImageStorage
var _ ImageStorage = (*StubImageStorage)(nil)
