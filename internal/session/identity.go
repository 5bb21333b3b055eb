// Package session carries the caller identity derived from the session
// cookie and writes that cookie back to clients.
package session

import "context"

// Identity is the caller as established by the session middleware. The zero
// value is the anonymous caller.
type Identity struct {
	UserID string
}

func Anonymous() Identity {
	return Identity{}
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity attached to ctx, or the anonymous one.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}
