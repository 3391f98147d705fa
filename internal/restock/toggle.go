package restock

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"Restock/internal/auth"
)

type Transition int

const (
	BecameUnavailable Transition = iota
	BecameAvailable
)

type ToggleResult struct {
	Product    Product
	Transition Transition
	// Notified counts subscribers notified on BecameAvailable.
	Notified int
	// Reset counts subscriptions whose notified flag was cleared on
	// BecameUnavailable.
	Reset int
}

// ToggleAvailability flips a product. Becoming available notifies every
// subscriber of that product not yet notified; becoming unavailable clears
// the notified flag on all of its subscriptions so the next restock
// notifies everyone again.
func (s *Service) ToggleAvailability(ctx context.Context, grant auth.Grant, productID int) (ToggleResult, error) {
	if !grant.Valid(s.now()) {
		return ToggleResult{}, ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(productID)
	if i < 0 {
		return ToggleResult{}, ErrProductNotFound
	}

	p := &s.products[i]
	p.IsAvailable = !p.IsAvailable
	s.persistProducts(ctx)

	res := ToggleResult{Product: *p}
	if p.IsAvailable {
		res.Transition = BecameAvailable
		for j := range s.subscriptions {
			sub := &s.subscriptions[j]
			if sub.ProductID != productID || sub.Notified {
				continue
			}
			s.notifier.Dispatch(ctx, sub.recipient(), p.Name, sub.NotificationType)
			sub.Notified = true
			res.Notified++
		}
	} else {
		res.Transition = BecameUnavailable
		for j := range s.subscriptions {
			if s.subscriptions[j].ProductID == productID {
				s.subscriptions[j].Notified = false
				res.Reset++
			}
		}
	}
	s.persistSubscriptions(ctx)

	s.log.Info("product availability toggled",
		zap.String("admin", grant.Subject()),
		zap.Int("product_id", p.ID),
		zap.Bool("is_available", p.IsAvailable),
		zap.Int("notified", res.Notified),
		zap.Int("reset", res.Reset),
	)

	return res, nil
}

func (s *Service) DeleteSubscription(ctx context.Context, grant auth.Grant, id int) error {
	if !grant.Valid(s.now()) {
		return ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.subscriptions, func(sub Subscription) bool { return sub.ID == id })
	if i < 0 {
		return ErrSubscriptionNotFound
	}

	s.subscriptions = slices.Delete(s.subscriptions, i, i+1)
	s.persistSubscriptions(ctx)

	s.log.Info("subscription deleted",
		zap.String("admin", grant.Subject()),
		zap.Int("subscription_id", id),
	)
	return nil
}
