package web

import (
	"errors"
	"fmt"

	"Restock/internal/restock"
	"Restock/pkg/kit"
)

const (
	msgLoginRequired  = "Please log in to access the admin panel."
	msgActionRequired = "Please log in to perform this action."
	msgLoggedIn       = "Logged in successfully as admin!"
	msgLoggedOut      = "You have been logged out."
	msgBadCredentials = "Invalid credentials. Please try again."
	msgTooManyLogins  = "Too many login attempts. Please wait a minute and try again."
	msgSessionFailed  = "Could not start an admin session. Please try again."
	msgServerError    = "Something went wrong. Please try again."
)

func subscribeFailure(err error) (kind, msg string) {
	var dup *restock.DuplicateError
	switch {
	case errors.Is(err, restock.ErrMissingEmail):
		return kit.FlashError, "Please provide your email address."
	case errors.Is(err, restock.ErrMissingPhone):
		return kit.FlashError, "Please provide your phone number."
	case errors.Is(err, restock.ErrMissingBoth):
		return kit.FlashError, "Please provide both your email and phone number."
	case errors.Is(err, restock.ErrMissingSelection):
		return kit.FlashError, "Please select a product and choose a notification type."
	case errors.Is(err, restock.ErrUnknownProduct):
		return kit.FlashError, "The selected product does not exist."
	case errors.As(err, &dup):
		return kit.FlashInfo, fmt.Sprintf("You are already subscribed for notifications about %s.", dup.ProductName)
	default:
		return kit.FlashError, msgServerError
	}
}

func subscribeSuccess(res restock.SubscribeResult) string {
	return fmt.Sprintf("Successfully subscribed to notifications for \"%s\"! We will notify you by %s.",
		res.ProductName, res.Subscription.NotificationType)
}

func toggleMessage(res restock.ToggleResult) (kind, msg string) {
	if res.Transition == restock.BecameAvailable {
		return kit.FlashSuccess, fmt.Sprintf("Product \"%s\" is now AVAILABLE. %d subscriber(s) notified.",
			res.Product.Name, res.Notified)
	}
	return kit.FlashWarning, fmt.Sprintf("Product \"%s\" is now UNAVAILABLE. All related notification statuses reset.",
		res.Product.Name)
}
