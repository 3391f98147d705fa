package restock

import "Restock/internal/notify"

type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	IsAvailable bool   `json:"is_available"`
}

type Subscription struct {
	ID               int               `json:"id"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	ProductID        int               `json:"product_id"`
	Notified         bool              `json:"notified"`
	NotificationType notify.Preference `json:"notification_type"`
}

func (p Product) Key() int      { return p.ID }
func (s Subscription) Key() int { return s.ID }

func (s Subscription) recipient() notify.Recipient {
	return notify.Recipient{Email: s.Email, Phone: s.Phone}
}

// SubscriptionView is a subscription with its product name resolved for
// the admin listing.
type SubscriptionView struct {
	Subscription
	ProductName string `json:"product_name"`
}

const unknownProductName = "Unknown Product"

// UniqueKey selects which contact field makes two subscriptions to the same
// product duplicates.
type UniqueKey string

const (
	// UniqueByEmail rejects a second subscription with the same non-empty
	// email. Phone-only subscribers are never treated as duplicates.
	UniqueByEmail UniqueKey = "email"
	// UniqueByContact also rejects a repeated non-empty phone number.
	UniqueByContact UniqueKey = "contact"
)

// DefaultProducts seeds an empty catalogue on first start.
func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Limited Edition Sneaker"},
		{ID: 2, Name: "Exclusive Art Print"},
		{ID: 3, Name: "Concert Ticket Batch 1"},
		{ID: 4, Name: "Pre-order Gadget X"},
	}
}
