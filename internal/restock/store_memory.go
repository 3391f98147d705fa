package restock

import (
	"context"
	"slices"
	"sync"
)

// MemStore keeps both collections in process memory. Values are copied in
// and out so callers never share backing arrays with the store.
type MemStore struct {
	mu            sync.RWMutex
	products      []Product
	subscriptions []Subscription
}

func NewMemStore(products []Product, subs []Subscription) *MemStore {
	return &MemStore{
		products:      slices.Clone(products),
		subscriptions: slices.Clone(subs),
	}
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) LoadProducts(context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product{}, s.products...), nil
}

func (s *MemStore) SaveProducts(_ context.Context, products []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.Clone(products)
	return nil
}

func (s *MemStore) LoadSubscriptions(context.Context) ([]Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Subscription{}, s.subscriptions...), nil
}

func (s *MemStore) SaveSubscriptions(_ context.Context, subs []Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = slices.Clone(subs)
	return nil
}
