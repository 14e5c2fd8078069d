package shared

import "context"

type identityContextKey struct{}

// ContextWithIdentity stores the resolved tenant identity in context.
func ContextWithIdentity(ctx context.Context, identity *TenantIdentity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext extracts the tenant identity from context. Returns nil
// when the request carried no authenticated identity.
func IdentityFromContext(ctx context.Context) *TenantIdentity {
	identity, _ := ctx.Value(identityContextKey{}).(*TenantIdentity)
	return identity
}
