package restock

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"Restock/internal/notify"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, to notify.Recipient, productName string, pref notify.Preference)
}

type Options struct {
	UniqueBy UniqueKey
	// Seed fills an empty catalogue; nil means DefaultProducts.
	Seed []Product
}

// Service owns the in-memory products and subscriptions. Every
// load-mutate-save sequence runs under one lock, and readers get copies.
type Service struct {
	mu sync.Mutex

	store    Store
	notifier Dispatcher
	log      *zap.Logger
	uniqueBy UniqueKey
	now      func() time.Time

	products      []Product
	subscriptions []Subscription
}

// NewService loads both collections and seeds the catalogue when it is
// empty. A store that reports a load error is not written to: seeding over
// it would replace data that is merely unreachable.
func NewService(ctx context.Context, store Store, notifier Dispatcher, log *zap.Logger, opts Options) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.UniqueBy == "" {
		opts.UniqueBy = UniqueByEmail
	}

	s := &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		uniqueBy: opts.UniqueBy,
		now:      time.Now,
	}

	products, err := store.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	subs, err := store.LoadSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	s.products = products
	s.subscriptions = subs

	if len(s.products) == 0 {
		seed := opts.Seed
		if seed == nil {
			seed = DefaultProducts()
		}
		s.products = slices.Clone(seed)
		s.persistProducts(ctx)
		log.Info("seeded default products", zap.Int("count", len(s.products)))
	}

	return s, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Products returns the catalogue ordered by id.
func (s *Service) Products() []Product {
	s.mu.Lock()
	out := slices.Clone(s.products)
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b Product) int { return a.ID - b.ID })
	return out
}

func (s *Service) Product(id int) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return Product{}, false
	}
	return s.products[i], true
}

// Subscriptions lists every subscription with its product name resolved.
func (s *Service) Subscriptions() []SubscriptionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[int]string, len(s.products))
	for _, p := range s.products {
		names[p.ID] = p.Name
	}

	out := make([]SubscriptionView, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		name, ok := names[sub.ProductID]
		if !ok {
			name = unknownProductName
		}
		out = append(out, SubscriptionView{Subscription: sub, ProductName: name})
	}
	return out
}

func (s *Service) productIndex(id int) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}

// persist* keep going on failure: memory stays authoritative and the next
// successful save brings the document back in line.
func (s *Service) persistProducts(ctx context.Context) {
	if err := s.store.SaveProducts(ctx, s.products); err != nil {
		s.log.Error("save products failed; memory and storage now differ", zap.Error(err))
	}
}

func (s *Service) persistSubscriptions(ctx context.Context) {
	if err := s.store.SaveSubscriptions(ctx, s.subscriptions); err != nil {
		s.log.Error("save subscriptions failed; memory and storage now differ", zap.Error(err))
	}
}
