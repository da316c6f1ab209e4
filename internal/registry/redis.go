package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vacekto/streamit-auth/internal/model"
)

// Redis is the session registry backed by a shared Redis client. Session
// entries live under <tokenPrefix>:<token-id> with a TTL equal to the
// refresh lifetime; the per-user index is a SET under
// <sessionPrefix>:<user-id>. Redis transaction pipelines are the only
// synchronization primitive: every mutation that spans the entry and the
// index is issued as one atomic batch.
type Redis struct {
	client        redis.UniversalClient
	tokenPrefix   string
	sessionPrefix string
	refreshTTL    time.Duration
}

var _ model.SessionRegistry = (*Redis)(nil)

// NewRedis creates a session registry on the given client. refreshTTL is
// the lifetime applied to every session entry.
func NewRedis(client redis.UniversalClient, tokenPrefix, sessionPrefix string, refreshTTL time.Duration) *Redis {
	return &Redis{
		client:        client,
		tokenPrefix:   tokenPrefix,
		sessionPrefix: sessionPrefix,
		refreshTTL:    refreshTTL,
	}
}

func (r *Redis) tokenKey(tokenID string) string {
	return r.tokenPrefix + ":" + tokenID
}

func (r *Redis) sessionKey(userID uuid.UUID) string {
	return r.sessionPrefix + ":" + userID.String()
}

// Register writes the session entry and adds the token-id to the user's
// index in one transaction, so a concurrent reader never observes one
// without the other.
func (r *Redis) Register(ctx context.Context, userID uuid.UUID, tokenID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(tokenID), userID.String(), r.refreshTTL)
		pipe.SAdd(ctx, r.sessionKey(userID), tokenID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}

	return nil
}

// Exists reports whether the session entry for tokenID is live.
func (r *Redis) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.tokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}
	return n == 1, nil
}

// Invalidate deletes the session entry and removes the token-id from the
// index as one transaction. The DEL result reports whether the entry
// existed: under a concurrent double refresh only one caller observes
// existed=true, which serializes rotation per token-id.
func (r *Redis) Invalidate(ctx context.Context, tokenID string, userID uuid.UUID) (bool, error) {
	var delCmd *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		delCmd = pipe.Del(ctx, r.tokenKey(tokenID))
		pipe.SRem(ctx, r.sessionKey(userID), tokenID)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}

	return delCmd.Val() == 1, nil
}

// InvalidateAll revokes every tracked session of the user and clears the
// index. Entries created between the index read and the delete batch are
// not captured; they expire by TTL.
func (r *Redis) InvalidateAll(ctx context.Context, userID uuid.UUID) error {
	sessionKey := r.sessionKey(userID)

	tokenIDs, err := r.client.SMembers(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tokenID := range tokenIDs {
			pipe.Del(ctx, r.tokenKey(tokenID))
		}
		pipe.Del(ctx, sessionKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}

	return nil
}

// Prune removes index members whose session entry has expired. The index
// does not shrink on its own when a TTL fires; this compensates. Callers
// treat a prune failure as non-fatal.
func (r *Redis) Prune(ctx context.Context, userID uuid.UUID) error {
	sessionKey := r.sessionKey(userID)

	tokenIDs, err := r.client.SMembers(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}
	if len(tokenIDs) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	existsCmds := make([]*redis.IntCmd, len(tokenIDs))
	for i, tokenID := range tokenIDs {
		existsCmds[i] = pipe.Exists(ctx, r.tokenKey(tokenID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}

	expired := make([]interface{}, 0, len(tokenIDs))
	for i, cmd := range existsCmds {
		n, cmdErr := cmd.Result()
		if cmdErr != nil {
			return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, cmdErr)
		}
		if n == 0 {
			expired = append(expired, tokenIDs[i])
		}
	}
	if len(expired) == 0 {
		return nil
	}

	if err := r.client.SRem(ctx, sessionKey, expired...).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}

	return nil
}

// Ping returns a point-in-time registry availability check.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrRegistryUnavailable, err)
	}
	return nil
}
