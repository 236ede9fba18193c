package credentialstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store, mainly here as a test double and for
// one-shot runs where persisting cookies is undesirable.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]Item{}}
}

func (s *MemoryStore) IsStored(_ context.Context, c Storable) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range c.StorageItems() {
		if _, ok := s.items[item.Name]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (s *MemoryStore) Store(_ context.Context, c Storable) error {
	items := c.StorageItems()
	for _, item := range items {
		if item.Name == "" || item.Value == "" {
			return fmt.Errorf("%w: %q", ErrInvalidAttributes, item.Name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.Name] = item
	}
	return nil
}

func (s *MemoryStore) Restore(_ context.Context, c Storable) error {
	s.mu.Lock()
	var restored []Item
	for _, item := range c.StorageItems() {
		stored, ok := s.items[item.Name]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrItemNotFound, item.Name)
		}
		restored = append(restored, stored)
	}
	s.mu.Unlock()
	return c.RestoreItems(restored)
}

func (s *MemoryStore) Clear(_ context.Context, c Storable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range c.StorageItems() {
		delete(s.items, item.Name)
	}
	return nil
}
