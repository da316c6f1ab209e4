package context

import (
	"context"

	"github.com/vacekto/streamit-auth/internal/model"
)

type claimsKey struct{}

// Manager stores and retrieves verified token claims on request contexts.
// Only the guard middleware writes; handlers read.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetClaimsToContext returns a child context carrying the verified claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims model.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext retrieves the verified claims set by the guard
// middleware. The boolean reports whether the request passed a guard at all.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (model.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(model.TokenClaims)
	return claims, ok
}
