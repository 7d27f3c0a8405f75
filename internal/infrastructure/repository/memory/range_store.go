package memory

import (
	"context"
	"slices"
	"sync"
	"time"
)

// RangeStore keeps range cache entries in process. It never expires keys on
// its own; readers validate the expiry stored inside each value.
type RangeStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewRangeStore() *RangeStore {
	return &RangeStore{items: make(map[string][]byte)}
}

func (s *RangeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (s *RangeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = slices.Clone(value)
	return nil
}

func (s *RangeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}
