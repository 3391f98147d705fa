package restock

import (
	"go.uber.org/zap"

	"Restock/internal/notify"
)

// SignupInput is the reduced subscribe form: email channel only, no product.
type SignupInput struct {
	Email  string
	Notify bool
}

// Signup validates a bare email sign-up with the same contact rule as an
// email subscription and records it in the log. Nothing is persisted.
func Signup(log *zap.Logger, in SignupInput) (SignupInput, error) {
	in.Email = normalizeEmail(in.Email)
	if err := checkContact(notify.PreferEmail, in.Email, ""); err != nil {
		return SignupInput{}, err
	}

	log.Info("signup received",
		zap.String("email", in.Email),
		zap.Bool("notify", in.Notify),
	)
	return in, nil
}
