package restock

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"Restock/internal/notify"
)

type SubscribeInput struct {
	Email            string
	Phone            string
	ProductID        int
	NotificationType notify.Preference
}

type SubscribeResult struct {
	Subscription Subscription
	ProductName  string
}

func (in SubscribeInput) normalized() SubscribeInput {
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.NotificationType = notify.Preference(strings.ToLower(strings.TrimSpace(string(in.NotificationType))))
	return in
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkContact enforces the contact fields the chosen channels need.
func checkContact(pref notify.Preference, email, phone string) error {
	switch pref {
	case notify.PreferEmail:
		if email == "" {
			return ErrMissingEmail
		}
	case notify.PreferPhone:
		if phone == "" {
			return ErrMissingPhone
		}
	case notify.PreferBoth:
		if email == "" || phone == "" {
			return ErrMissingBoth
		}
	}
	return nil
}

// Subscribe registers interest in a product. Checks run in a fixed order
// and the first failure wins; nothing is stored on failure.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (SubscribeResult, error) {
	in = in.normalized()

	if err := checkContact(in.NotificationType, in.Email, in.Phone); err != nil {
		return SubscribeResult{}, err
	}
	if in.ProductID <= 0 || !in.NotificationType.Valid() {
		return SubscribeResult{}, ErrMissingSelection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(in.ProductID)
	if i < 0 {
		return SubscribeResult{}, ErrUnknownProduct
	}
	product := s.products[i]

	if s.isDuplicate(in) {
		return SubscribeResult{}, &DuplicateError{ProductName: product.Name}
	}

	sub := Subscription{
		ID:               NextID(s.subscriptions),
		Email:            in.Email,
		Phone:            in.Phone,
		ProductID:        in.ProductID,
		Notified:         false,
		NotificationType: in.NotificationType,
	}
	s.subscriptions = append(s.subscriptions, sub)
	s.persistSubscriptions(ctx)

	s.log.Info("subscription created",
		zap.Int("subscription_id", sub.ID),
		zap.Int("product_id", sub.ProductID),
		zap.String("notification_type", string(sub.NotificationType)),
	)

	return SubscribeResult{Subscription: sub, ProductName: product.Name}, nil
}

func (s *Service) isDuplicate(in SubscribeInput) bool {
	for _, sub := range s.subscriptions {
		if sub.ProductID != in.ProductID {
			continue
		}
		if in.Email != "" && sub.Email == in.Email {
			return true
		}
		if s.uniqueBy == UniqueByContact && in.Phone != "" && sub.Phone == in.Phone {
			return true
		}
	}
	return false
}
