package model

import "context"

// ContextManager moves verified token claims between the guard pipeline and
// handlers via the request context.
type ContextManager interface {
	SetClaimsToContext(ctx context.Context, claims TokenClaims) context.Context
	GetClaimsFromContext(ctx context.Context) (TokenClaims, bool)
}
