package model

import "context"

// Identity is the verified claim set extracted from a federated ID token.
type Identity struct {
	Email   string
	Subject string
}

// IdentityProvider wraps an external OIDC provider: building the consent
// URL, exchanging an authorization code for a raw ID token, and verifying
// that token's signature and audience.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (rawIDToken string, err error)
	Verify(ctx context.Context, rawIDToken string) (Identity, error)
}
