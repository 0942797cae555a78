package auth

import "context"

type scopeContextKey struct{}

// WithScope attaches a request scope to the context. The HTTP transport
// calls this for every incoming request that carries credentials.
func WithScope(ctx context.Context, scope *RequestScope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// ScopeFromContext returns the request scope attached to the context, or
// nil when the request carried no credentials (stdio transport, or HTTP
// callers relying on the process configuration).
func ScopeFromContext(ctx context.Context) *RequestScope {
	scope, _ := ctx.Value(scopeContextKey{}).(*RequestScope)
	return scope
}
