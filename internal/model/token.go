package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is the verified claim set carried by both access and refresh
// tokens. TokenID is the unit of revocation; the raw token string is never
// stored anywhere.
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	Email     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is one issuance: an access token and the refresh token whose
// token-id has been registered in the session registry.
type TokenPair struct {
	AccessToken   string
	RefreshToken  string
	RefreshClaims TokenClaims
}

// TokenIssuer mints and verifies signed access/refresh tokens. Access and
// refresh tokens share the claim shape but use independent secrets and
// lifetimes. Verification checks the signature and claim shape only; expiry
// is an explicit guard-pipeline stage.
type TokenIssuer interface {
	SignAccess(user User) (TokenClaims, string, error)
	SignRefresh(user User) (TokenClaims, string, error)
	VerifyAccess(token string) (TokenClaims, error)
	VerifyRefresh(token string) (TokenClaims, error)
}
