package auth

import "context"

type identityKey struct{}

// WithIdentity attaches a verified identity to ctx. Only transport boundaries should call it.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || identity.Subject == "" {
		return Identity{}, false
	}
	return identity, true
}
