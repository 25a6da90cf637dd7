// Package memory provides an in-memory ObjectStore used by tests and
// local development runs without an S3 endpoint.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Store keeps objects in a map keyed by bucket/key.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{objects: make(map[string][]byte)}
}

// Put stores raw bytes at bucket/key.
func (s *Store) Put(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = append([]byte(nil), data...)
}

// Get returns the raw bytes at bucket/key.
func (s *Store) Get(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[bucket+"/"+key]
	return data, ok
}

// Read implements interfaces.ObjectStore.
func (s *Store) Read(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	data, ok := s.Get(bucket, key)
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// WriteJSON implements interfaces.ObjectStore.
func (s *Store) WriteJSON(ctx context.Context, bucket, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", bucket, key, err)
	}
	s.Put(bucket, key, payload)
	return nil
}
