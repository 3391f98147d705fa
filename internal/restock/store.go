package restock

import "context"

// Store persists the two collections. A missing or corrupt document loads as
// an empty collection; an unreachable backend is an error. Saves rewrite the
// whole collection.
type Store interface {
	LoadProducts(ctx context.Context) ([]Product, error)
	SaveProducts(ctx context.Context, products []Product) error
	LoadSubscriptions(ctx context.Context) ([]Subscription, error)
	SaveSubscriptions(ctx context.Context, subs []Subscription) error
	Ping(ctx context.Context) error
}
