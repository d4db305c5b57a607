package identity

import "context"

// Identity is the authenticated subject of a request.
type Identity struct {
	UserID string
}

func (i Identity) IsZero() bool { return i.UserID == "" }

type ctxKey struct{}

// WithContext returns a copy of ctx carrying id.
func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity attached by the auth gate, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}

// MustFromContext panics when no identity is present. Protected handlers
// only run behind the auth gate, so a missing identity is a wiring bug.
func MustFromContext(ctx context.Context) Identity {
	id, ok := FromContext(ctx)
	if !ok {
		panic("identity: no authenticated identity in context")
	}
	return id
}
