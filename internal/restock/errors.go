package restock

import (
	"errors"
	"fmt"
)

var (
	ErrMissingEmail     = errors.New("missing email")
	ErrMissingPhone     = errors.New("missing phone")
	ErrMissingBoth      = errors.New("missing email and phone")
	ErrMissingSelection = errors.New("missing product or notification type")
	ErrUnknownProduct   = errors.New("unknown product")

	ErrAlreadySubscribed = errors.New("already subscribed")

	ErrUnauthorized         = errors.New("admin access required")
	ErrProductNotFound      = errors.New("product not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// DuplicateError reports a rejected subscribe and names the product the
// caller is already waiting for. It matches ErrAlreadySubscribed.
type DuplicateError struct {
	ProductName string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("already subscribed to %q", e.ProductName)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrAlreadySubscribed
}
