package access

import "context"

// Identity is the authenticated caller, resolved once by the auth middleware
// and threaded through request contexts instead of ambient session state.
type Identity struct {
	UserID uint
	RoleID uint
	Name   string
}

type identityKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
