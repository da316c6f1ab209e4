package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FederatedStateTTL is how long a pending federated-login state parameter
// stays redeemable.
const FederatedStateTTL = 10 * time.Minute

// SessionRegistry records which refresh token-ids are currently valid.
// A session entry (token-id -> user-id, TTL = refresh lifetime) is the sole
// source of truth for refresh validity beyond signature and expiry. The
// per-user index is a convenience for pruning and bulk revocation and may
// lag behind entry expiry.
type SessionRegistry interface {
	// Register writes the session entry and adds the token-id to the user's
	// index as one atomic batch.
	Register(ctx context.Context, userID uuid.UUID, tokenID string) error
	// Exists reports whether the session entry for tokenID is live.
	Exists(ctx context.Context, tokenID string) (bool, error)
	// Invalidate atomically deletes the session entry and removes the
	// token-id from the index. It reports whether the entry existed, which
	// lets a refresh rotation claim the old token-id exactly once.
	Invalidate(ctx context.Context, tokenID string, userID uuid.UUID) (bool, error)
	// InvalidateAll revokes every session of the user and clears the index.
	InvalidateAll(ctx context.Context, userID uuid.UUID) error
	// Prune drops index members whose session entry has expired. Best
	// effort: correctness of Exists never depends on it.
	Prune(ctx context.Context, userID uuid.UUID) error
}

// StateStore holds single-use federated-login state parameters.
type StateStore interface {
	Create(ctx context.Context) (state string, err error)
	// Consume redeems a state parameter, reporting whether it was live.
	// A state can be consumed at most once.
	Consume(ctx context.Context, state string) (bool, error)
}
