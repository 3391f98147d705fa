package auth

import (
	"context"
	"time"
)

// Grant is the admin capability issued at login. Its fields are unexported,
// so outside this package a Grant only comes from TokenMaker; the zero value
// authorises nothing.
type Grant struct {
	subject   string
	expiresAt time.Time
}

func (g Grant) Subject() string { return g.subject }

func (g Grant) ExpiresAt() time.Time { return g.expiresAt }

func (g Grant) Valid(now time.Time) bool {
	return g.subject != "" && now.Before(g.expiresAt)
}

type ctxKey struct{}

func WithGrant(ctx context.Context, g Grant) context.Context {
	return context.WithValue(ctx, ctxKey{}, g)
}

func GrantFromContext(ctx context.Context) (Grant, bool) {
	g, ok := ctx.Value(ctxKey{}).(Grant)
	return g, ok
}
